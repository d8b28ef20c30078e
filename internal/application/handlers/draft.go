package handlers

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ersonp/zasdict/internal/domain/entities"
	"github.com/ersonp/zasdict/internal/domain/services"
)

// DraftInput is an entry as typed on the command line. Empty fields leave
// the base entry unchanged.
type DraftInput struct {
	Form         string
	Translations []string // "title:form, form" or "form, form"
	Tags         []string
	Usage        string
	Etymology    string
	Variations   []string // "title:form"
	Relations    []string // "kind:id", added to the entry
	Unrelate     []entities.EntryID
}

// ApplyDraft returns base with the fields of in applied. Translation input
// is split into forms at the dictionary's punctuation.
func ApplyDraft(base entities.Entry, in DraftInput, punctuations []string) (entities.Entry, error) {
	e := base.Clone()

	if form := strings.TrimSpace(in.Form); form != "" {
		e.Ref.Form = form
	}

	if len(in.Translations) > 0 {
		e.Translations = nil
		for _, raw := range in.Translations {
			title, rest := splitTitle(raw)
			e.Translations = append(e.Translations, entities.Translation{
				Title: title,
				Forms: services.SplitForms(rest, punctuations),
			})
		}
	}

	if len(in.Tags) > 0 {
		e.Tags = nil
		for _, raw := range in.Tags {
			e.Tags = append(e.Tags, services.SplitForms(raw, punctuations)...)
		}
	}

	e.Contents = setContent(e.Contents, entities.ContentUsage, in.Usage)
	e.Contents = setContent(e.Contents, entities.ContentEtymology, in.Etymology)

	if len(in.Variations) > 0 {
		e.Variations = nil
		for _, raw := range in.Variations {
			title, form := splitTitle(raw)
			if form = strings.TrimSpace(form); form != "" {
				e.Variations = append(e.Variations, entities.Variation{Title: title, Form: form})
			}
		}
	}

	if len(in.Unrelate) > 0 {
		e.Relations = slices.DeleteFunc(e.Relations, func(r entities.Relation) bool {
			return slices.Contains(in.Unrelate, r.Entry.ID)
		})
	}
	for _, raw := range in.Relations {
		rel, err := ParseRelation(raw)
		if err != nil {
			return entities.Entry{}, err
		}
		e.Relations = append(e.Relations, rel)
	}

	return e, nil
}

// ParseRelation parses "kind:id", for example "synonym:12" or "類義語:12".
func ParseRelation(s string) (entities.Relation, error) {
	kindStr, idStr, ok := strings.Cut(s, ":")
	if !ok {
		return entities.Relation{}, fmt.Errorf("invalid relation %q (expected kind:id)", s)
	}
	kind, err := entities.ParseRelationKind(kindStr)
	if err != nil {
		return entities.Relation{}, err
	}
	id, err := entities.ParseEntryID(strings.TrimSpace(idStr))
	if err != nil {
		return entities.Relation{}, err
	}
	return entities.Relation{Title: kind, Entry: entities.EntryRef{ID: id}}, nil
}

// splitTitle splits "title:rest". Without a colon the title is empty.
func splitTitle(s string) (string, string) {
	title, rest, ok := strings.Cut(s, ":")
	if !ok {
		return "", s
	}
	return strings.TrimSpace(title), rest
}

// setContent replaces the text of the content with the given title, adding
// it when missing. Blank text leaves contents unchanged.
func setContent(contents []entities.Content, title, text string) []entities.Content {
	text = strings.TrimSpace(text)
	if text == "" {
		return contents
	}
	if i := slices.IndexFunc(contents, func(c entities.Content) bool { return c.Title == title }); i >= 0 {
		contents[i].Text = text
		return contents
	}
	return append(contents, entities.Content{Title: title, Text: text})
}
