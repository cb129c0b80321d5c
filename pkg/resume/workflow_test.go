package resume

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anaswara-jk/Careerly/pkg/remote"
	"github.com/Anaswara-jk/Careerly/pkg/remote/remotetest"
)

func docxFile() remote.File {
	return BytesFile("cv.docx", "", []byte("resume body"))
}

type transitions struct {
	mu  sync.Mutex
	got []Stage
}

func (tr *transitions) record(_, to Stage) {
	tr.mu.Lock()
	tr.got = append(tr.got, to)
	tr.mu.Unlock()
}

func (tr *transitions) list() []Stage {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]Stage(nil), tr.got...)
}

func TestWorkflowHappyPath(t *testing.T) {
	stub := &remotetest.Stub{
		ParseFn: func(_ context.Context, id string) (remote.ParsedResume, error) {
			assert.Equal(t, "stored-cv.docx", id)
			return remote.ParsedResume{Skills: []string{"Python", "SQL"}}, nil
		},
		SuggestFn: func(_ context.Context, id string) (remote.Suggestions, error) {
			assert.Equal(t, "stored-cv.docx", id)
			return remote.Suggestions{Careers: []remote.CareerSuggestion{{Title: "Data Analyst"}}}, nil
		},
		UploadFn: func(_ context.Context, f remote.File, progress remote.ProgressFunc) (string, error) {
			progress(40)
			progress(100)
			return "stored-" + f.Name, nil
		},
	}
	w := NewWorkflow(stub, 0)
	tr := &transitions{}
	w.OnTransition(tr.record)

	require.NoError(t, w.SelectFile(docxFile()))
	require.NoError(t, w.BeginAnalysis(context.Background()))

	assert.Equal(t, []Stage{
		StageUploading, StageUploaded, StageParsing, StageParsed, StageSuggesting, StageComplete,
	}, tr.list())

	snap := w.Snapshot()
	assert.Equal(t, StageComplete, snap.Stage)
	assert.Equal(t, 100, snap.UploadProgress)
	assert.Equal(t, "stored-cv.docx", snap.FileID)
	require.NotNil(t, snap.Parsed)
	assert.Equal(t, []string{"Python", "SQL"}, snap.Parsed.Skills)
	require.NotNil(t, snap.Suggestions)
	assert.Equal(t, []remote.CareerSuggestion{{Title: "Data Analyst"}}, snap.Suggestions.Careers)
	assert.False(t, snap.Busy())
}

func TestWorkflowUploadProgressIsMonotonicAndClamped(t *testing.T) {
	var w *Workflow
	var seen []int
	stub := &remotetest.Stub{
		UploadFn: func(_ context.Context, f remote.File, progress remote.ProgressFunc) (string, error) {
			for _, p := range []int{10, 5, 60, -3, 150, 90} {
				progress(p)
				seen = append(seen, w.Snapshot().UploadProgress)
			}
			return f.Name, nil
		},
	}
	w = NewWorkflow(stub, 0)
	require.NoError(t, w.SelectFile(docxFile()))
	require.NoError(t, w.BeginAnalysis(context.Background()))

	assert.Equal(t, []int{10, 10, 60, 60, 100, 100}, seen)
}

func TestWorkflowSuggestFailureKeepsParsedResult(t *testing.T) {
	stub := &remotetest.Stub{
		ParseFn: func(context.Context, string) (remote.ParsedResume, error) {
			return remote.ParsedResume{Skills: []string{"Go"}}, nil
		},
		SuggestFn: func(context.Context, string) (remote.Suggestions, error) {
			return remote.Suggestions{}, errors.New("timeout")
		},
	}
	w := NewWorkflow(stub, 0)
	require.NoError(t, w.SelectFile(docxFile()))

	err := w.BeginAnalysis(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, remote.ErrSuggest)

	snap := w.Snapshot()
	assert.Equal(t, StageFailed, snap.Stage)
	assert.Equal(t, StageSuggesting, snap.FailedStage)
	require.NotNil(t, snap.Parsed)
	assert.Equal(t, []string{"Go"}, snap.Parsed.Skills)
	assert.Nil(t, snap.Suggestions)
	assert.Contains(t, snap.Status, "suggest")
	assert.Contains(t, snap.Status, "timeout")
}

func TestWorkflowParseFailureKeepsUploadResult(t *testing.T) {
	stub := &remotetest.Stub{
		ParseFn: func(context.Context, string) (remote.ParsedResume, error) {
			return remote.ParsedResume{}, remote.Errorf(remote.OpParse, "corrupt document")
		},
	}
	w := NewWorkflow(stub, 0)
	require.NoError(t, w.SelectFile(docxFile()))

	err := w.BeginAnalysis(context.Background())
	assert.ErrorIs(t, err, remote.ErrParse)

	snap := w.Snapshot()
	assert.Equal(t, StageFailed, snap.Stage)
	assert.Nil(t, snap.Parsed)
	assert.Nil(t, snap.Suggestions)
	assert.Equal(t, 100, snap.UploadProgress)
	assert.Equal(t, "cv.docx", snap.FileID)
	assert.Equal(t, "parse failed: corrupt document", snap.Status)
	assert.Equal(t, 0, stub.Calls(remote.OpSuggest))
}

func TestWorkflowUploadFailure(t *testing.T) {
	stub := &remotetest.Stub{
		UploadFn: func(_ context.Context, _ remote.File, progress remote.ProgressFunc) (string, error) {
			progress(30)
			return "", errors.New("connection refused")
		},
	}
	w := NewWorkflow(stub, 0)
	require.NoError(t, w.SelectFile(docxFile()))

	err := w.BeginAnalysis(context.Background())
	assert.ErrorIs(t, err, remote.ErrUpload)
	snap := w.Snapshot()
	assert.Equal(t, StageFailed, snap.Stage)
	assert.Equal(t, "upload failed: connection refused", snap.Status)
	assert.Equal(t, 0, snap.UploadProgress)
	assert.Equal(t, 0, stub.Calls(remote.OpParse))
}

func TestWorkflowRetryStartsFromZeroProgress(t *testing.T) {
	var w *Workflow
	attempts := 0
	var progressAtStart []int
	stub := &remotetest.Stub{
		UploadFn: func(_ context.Context, f remote.File, progress remote.ProgressFunc) (string, error) {
			attempts++
			progressAtStart = append(progressAtStart, w.Snapshot().UploadProgress)
			progress(70)
			if attempts == 1 {
				return "", errors.New("reset by peer")
			}
			return f.Name, nil
		},
	}
	w = NewWorkflow(stub, 0)
	require.NoError(t, w.SelectFile(docxFile()))

	require.Error(t, w.BeginAnalysis(context.Background()))
	assert.Equal(t, 0, w.Snapshot().UploadProgress)

	require.NoError(t, w.BeginAnalysis(context.Background()))
	assert.Equal(t, []int{0, 0}, progressAtStart)
	assert.Equal(t, StageComplete, w.Stage())
}

func TestWorkflowSelectFileValidation(t *testing.T) {
	tests := []struct {
		name         string
		file         remote.File
		wantErr      error
		wantSelected bool
	}{
		{name: "pdf by extension", file: remote.File{Name: "a.PDF"}, wantSelected: true},
		{name: "doc by extension", file: remote.File{Name: "a.doc"}, wantSelected: true},
		{name: "pdf by mime", file: remote.File{Name: "resume", ContentType: "application/pdf"}, wantSelected: true},
		{name: "text file", file: remote.File{Name: "notes.txt", ContentType: "text/plain"}, wantErr: ErrInvalidFileType},
		{name: "image", file: remote.File{Name: "me.png"}, wantErr: ErrInvalidFileType},
		{name: "too large", file: remote.File{Name: "big.pdf", Size: 2048}, wantErr: ErrFileTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &remotetest.Stub{}
			w := NewWorkflow(stub, 1024)
			err := w.SelectFile(tt.file)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.NotEmpty(t, w.Snapshot().Status)
			} else {
				assert.NoError(t, err)
			}
			snap := w.Snapshot()
			assert.Equal(t, StageIdle, snap.Stage)
			assert.Equal(t, tt.wantSelected, snap.SelectedFile != "")
			assert.Equal(t, 0, stub.Calls(remote.OpUpload))
		})
	}
}

func TestWorkflowBeginWithoutFileIsNoop(t *testing.T) {
	stub := &remotetest.Stub{}
	w := NewWorkflow(stub, 0)

	assert.ErrorIs(t, w.BeginAnalysis(context.Background()), ErrNoFile)
	assert.Equal(t, StageIdle, w.Stage())
	assert.Equal(t, 0, stub.Calls(remote.OpUpload))
}

func TestWorkflowRejectsWhileInFlight(t *testing.T) {
	gate := remotetest.NewGate()
	stub := &remotetest.Stub{
		ParseFn: func(ctx context.Context, _ string) (remote.ParsedResume, error) {
			if err := gate.Wait(ctx); err != nil {
				return remote.ParsedResume{}, err
			}
			return remote.ParsedResume{}, nil
		},
	}
	w := NewWorkflow(stub, 0)
	require.NoError(t, w.SelectFile(docxFile()))

	done := make(chan error, 1)
	go func() { done <- w.BeginAnalysis(context.Background()) }()
	<-gate.Entered

	assert.ErrorIs(t, w.BeginAnalysis(context.Background()), ErrBusy)
	assert.ErrorIs(t, w.SelectFile(docxFile()), ErrBusy)
	assert.True(t, w.Snapshot().Busy())

	gate.Release()
	require.NoError(t, <-done)
	assert.Equal(t, 1, stub.Calls(remote.OpUpload))
	assert.Equal(t, 1, stub.Calls(remote.OpParse))
}

func TestWorkflowResetDiscardsLateResponse(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	stub := &remotetest.Stub{
		// Ignores cancellation so the response really arrives after Reset.
		ParseFn: func(context.Context, string) (remote.ParsedResume, error) {
			close(entered)
			<-release
			return remote.ParsedResume{Skills: []string{"late"}}, nil
		},
	}
	w := NewWorkflow(stub, 0)
	tr := &transitions{}
	require.NoError(t, w.SelectFile(docxFile()))

	done := make(chan error, 1)
	go func() { done <- w.BeginAnalysis(context.Background()) }()
	<-entered

	w.OnTransition(tr.record)
	w.Reset()
	close(release)

	select {
	case err := <-done:
		assert.True(t, IsStale(err))
	case <-time.After(2 * time.Second):
		t.Fatal("analysis did not return")
	}

	snap := w.Snapshot()
	assert.Equal(t, StageIdle, snap.Stage)
	assert.Nil(t, snap.Parsed)
	assert.Empty(t, snap.SelectedFile)
	assert.Empty(t, snap.FileID)
	assert.Equal(t, 0, snap.UploadProgress)
	assert.Equal(t, 0, stub.Calls(remote.OpSuggest))
	assert.Equal(t, []Stage{StageIdle}, tr.list())
}

func TestWorkflowResetCancelsInFlightCall(t *testing.T) {
	gate := remotetest.NewGate()
	stub := &remotetest.Stub{
		UploadFn: func(ctx context.Context, _ remote.File, _ remote.ProgressFunc) (string, error) {
			if err := gate.Wait(ctx); err != nil {
				return "", err
			}
			return "x.pdf", nil
		},
	}
	w := NewWorkflow(stub, 0)
	require.NoError(t, w.SelectFile(docxFile()))

	done := make(chan error, 1)
	go func() { done <- w.BeginAnalysis(context.Background()) }()
	<-gate.Entered
	w.Reset()

	assert.True(t, IsStale(<-done))
	assert.Equal(t, StageIdle, w.Stage())
}

func TestWorkflowSelectAfterFailureReturnsToIdle(t *testing.T) {
	stub := &remotetest.Stub{
		UploadFn: func(context.Context, remote.File, remote.ProgressFunc) (string, error) {
			return "", errors.New("boom")
		},
	}
	w := NewWorkflow(stub, 0)
	require.NoError(t, w.SelectFile(docxFile()))
	require.Error(t, w.BeginAnalysis(context.Background()))
	require.Equal(t, StageFailed, w.Stage())

	require.NoError(t, w.SelectFile(BytesFile("other.pdf", "", []byte("x"))))
	snap := w.Snapshot()
	assert.Equal(t, StageIdle, snap.Stage)
	assert.Equal(t, "other.pdf", snap.SelectedFile)
	assert.Empty(t, snap.Status)
	assert.Empty(t, snap.FailedStage)
}

func TestStageReached(t *testing.T) {
	assert.True(t, StageComplete.Reached(StageParsed))
	assert.True(t, StageParsed.Reached(StageParsed))
	assert.False(t, StageUploading.Reached(StageParsed))
	assert.False(t, StageFailed.Reached(StageIdle))
}
