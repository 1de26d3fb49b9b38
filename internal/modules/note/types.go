package note

import (
	"errors"

	"github.com/notewise/core/internal/models"
	"github.com/notewise/core/internal/modules/ai"
)

type CreateNoteDTO struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateNoteDTO is a full replace of title and content; tags ride along when
// the editor already has them.
type UpdateNoteDTO struct {
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Tags    *[]string `json:"tags"`
}

// PatchTagsDTO carries partial tag/topic updates. Nil means "leave alone",
// never "clear".
type PatchTagsDTO struct {
	Tags   *[]string `json:"tags"`
	Topics *[]string `json:"topics"`
}

// NoteWithAnalysis is the creation response: the persisted note plus the
// full ephemeral analysis for immediate display.
type NoteWithAnalysis struct {
	models.NoteModel
	Analysis *ai.Analysis `json:"analysis,omitempty"`
}

var ErrMissingFields = errors.New("missing fields")
