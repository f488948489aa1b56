package model

import "time"

// Report summarizes one document-generation run
type Report struct {
	RunID       string    `json:"run_id"`
	Lang        string    `json:"lang"`
	Resource    string    `json:"resource"`
	Book        string    `json:"book,omitempty"`
	Tag         string    `json:"tag,omitempty"`
	Commit      string    `json:"commit,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	Stats Stats `json:"stats"`

	BadLinks      []BadLink      `json:"bad_links"`
	BadHighlights []BadHighlight `json:"bad_highlights"`

	Warnings []string `json:"warnings,omitempty"` // manifest parse problems and similar
}

// Stats counts registry entries at the end of a run
type Stats struct {
	PrimaryLinks  int `json:"primary_links"`
	AppendixLinks int `json:"appendix_links"`
	Inlined       int `json:"inlined_appendix"` // appendix articles placed in the document
	BadLinks      int `json:"bad_links"`
	BadHighlights int `json:"bad_highlights"`
}

// BadLink is a reference that had no backing file at its stated location
type BadLink struct {
	Source string  `json:"source"`          // rc link of the article containing the reference
	Target string  `json:"target"`          // rc link (or relative path) as written
	Fix    *string `json:"fix"`             // corrected rc link, nil when none was found
	State  string  `json:"state,omitempty"` // lookup state of the original target
}

// BadHighlight lists phrases of one note that were not found in its source text
type BadHighlight struct {
	RC         string      `json:"rc"`
	SourceText string      `json:"source_text"`
	Phrases    []PhraseFix `json:"phrases"`
}

// PhraseFix is a phrase that failed to match and an alternate that did, if any
type PhraseFix struct {
	Phrase string  `json:"phrase"`
	Fix    *string `json:"fix"`
}
