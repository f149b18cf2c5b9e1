package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddfmt/internal/config"
	"ddfmt/internal/model"
	"ddfmt/internal/report"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	cfg := config.DefaultConfig().Resolve(t.TempDir())
	cfg.Calendar = filepath.Join(filepath.Dir(cfg.Output), "week.ics")
	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	opts.Now = func() time.Time { return time.Date(2023, time.July, 10, 0, 0, 0, 0, time.UTC) }
	return opts
}

func TestRunBootstrapsExampleButNeedsInput(t *testing.T) {
	t.Parallel()

	opts := testOptions(t)
	res, err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.True(t, res.ExampleCreated)

	data, err := os.ReadFile(opts.Example)
	require.NoError(t, err)
	info, err := model.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, model.Example(), info)

	// A second run leaves the existing example alone.
	require.NoError(t, os.WriteFile(opts.Example, []byte("edited"), 0o644))
	res, _ = Run(context.Background(), opts)
	assert.False(t, res.ExampleCreated)
	data, err = os.ReadFile(opts.Example)
	require.NoError(t, err)
	assert.Equal(t, "edited", string(data))
}

func TestRunWritesPostAndCalendar(t *testing.T) {
	t.Parallel()

	opts := testOptions(t)
	_, err := EnsureExample(opts.Input)
	require.NoError(t, err)

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, res.Stale)
	assert.Equal(t, model.Example(), res.Info)

	post, err := os.ReadFile(opts.Output)
	require.NoError(t, err)
	assert.Equal(t, report.Render(model.Example()), string(post))

	ics, err := os.ReadFile(opts.Calendar)
	require.NoError(t, err)
	assert.Contains(t, string(ics), "BEGIN:VCALENDAR")
}

func TestRunYAMLInputAndStaleness(t *testing.T) {
	t.Parallel()

	opts := testOptions(t)
	opts.Input = filepath.Join(filepath.Dir(opts.Input), "info.yaml")
	opts.Calendar = ""
	opts.Now = func() time.Time { return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC) }

	data, err := model.EncodeExample(model.FormatYAML)
	require.NoError(t, err)
	require.NoError(t, WriteFile(opts.Input, data))

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.Equal(t, model.Example(), res.Info)
}

func TestRunReportsSchemaErrors(t *testing.T) {
	t.Parallel()

	opts := testOptions(t)
	require.NoError(t, WriteFile(opts.Input, []byte(`{"start": "2023-07-06"}`)))

	_, err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrMissingField)
	assert.Contains(t, err.Error(), opts.Input)

	_, statErr := os.Stat(opts.Output)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "no output on failure")
}

func TestWatchRerendersOnChange(t *testing.T) {
	t.Parallel()

	opts := testOptions(t)
	opts.Calendar = ""
	_, err := EnsureExample(opts.Input)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results := make(chan Result, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, opts, func(res Result, err error) {
			if err == nil {
				results <- res
			}
		})
	}()

	select {
	case first := <-results:
		assert.Equal(t, "High Contact", first.Info.DeepDive.Codename)
	case <-ctx.Done():
		t.Fatal("no initial render")
	}

	info := model.Example()
	info.DeepDive.Codename = "Second Wind"
	data, err := model.Encode(info)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(opts.Input, data, 0o644))

	select {
	case res := <-results:
		assert.Equal(t, "Second Wind", res.Info.DeepDive.Codename)
	case <-ctx.Done():
		t.Fatal("no re-render after input change")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestRunFetchesRemoteInput(t *testing.T) {
	t.Parallel()

	body, err := model.EncodeExample(model.FormatTOML)
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	opts := testOptions(t)
	opts.Input = srv.URL + "/info.toml"

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, model.Example(), res.Info)

	err = Watch(context.Background(), opts, func(Result, error) {})
	assert.ErrorContains(t, err, "cannot watch remote input")
}
