package resume

import (
	"errors"

	"github.com/Anaswara-jk/Careerly/pkg/remote"
)

// Stage is one phase of the upload → parse → suggest pipeline.
type Stage string

const (
	StageIdle       Stage = "idle"
	StageUploading  Stage = "uploading"
	StageUploaded   Stage = "uploaded"
	StageParsing    Stage = "parsing"
	StageParsed     Stage = "parsed"
	StageSuggesting Stage = "suggesting"
	StageComplete   Stage = "complete"
	StageFailed     Stage = "failed"
)

// order gives the position of forward stages; Failed is outside the chain.
var order = map[Stage]int{
	StageIdle:       0,
	StageUploading:  1,
	StageUploaded:   2,
	StageParsing:    3,
	StageParsed:     4,
	StageSuggesting: 5,
	StageComplete:   6,
}

// Reached reports whether s is at or beyond target in the forward chain.
func (s Stage) Reached(target Stage) bool {
	a, ok1 := order[s]
	b, ok2 := order[target]
	return ok1 && ok2 && a >= b
}

// label is the short stage name used in status messages.
func (s Stage) label() string {
	switch s {
	case StageUploading:
		return "upload"
	case StageParsing:
		return "parse"
	case StageSuggesting:
		return "suggest"
	default:
		return string(s)
	}
}

func (s Stage) op() remote.Op {
	switch s {
	case StageUploading:
		return remote.OpUpload
	case StageParsing:
		return remote.OpParse
	default:
		return remote.OpSuggest
	}
}

var (
	ErrInvalidFileType = errors.New("invalid file type: only PDF, DOC and DOCX are supported")
	ErrFileTooLarge    = errors.New("file too large")
	ErrNoFile          = errors.New("no file selected")
	ErrBusy            = errors.New("analysis already in progress")
	// ErrSuperseded is returned by an analysis whose results were discarded
	// because the workflow was reset or restarted meanwhile.
	ErrSuperseded = errors.New("analysis superseded")
)

// Snapshot is a read-only copy of workflow state for presentation.
type Snapshot struct {
	Stage          Stage                `json:"stage"`
	SelectedFile   string               `json:"selectedFile,omitempty"`
	UploadProgress int                  `json:"uploadProgress"`
	FileID         string               `json:"fileId,omitempty"`
	Parsed         *remote.ParsedResume `json:"parsed,omitempty"`
	Suggestions    *remote.Suggestions  `json:"careerSuggestions,omitempty"`
	FailedStage    Stage                `json:"failedStage,omitempty"`
	Status         string               `json:"status,omitempty"`
	AttemptID      string               `json:"attemptId,omitempty"`
}

// Busy reports whether a remote call is in flight.
func (s Snapshot) Busy() bool {
	switch s.Stage {
	case StageUploading, StageUploaded, StageParsing, StageParsed, StageSuggesting:
		return true
	}
	return false
}
