package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/zasdict/internal/domain/entities"
	"github.com/ersonp/zasdict/internal/domain/index"
	"github.com/ersonp/zasdict/internal/domain/mocks"
	"github.com/ersonp/zasdict/internal/domain/services"
)

type recordingInstaller struct {
	installed []*index.Snapshot
}

func (r *recordingInstaller) Install(snap *index.Snapshot) {
	r.installed = append(r.installed, snap)
}

func newEntryHandler(t *testing.T) (*EntryHandler, *services.DictionaryService, *recordingInstaller) {
	t.Helper()
	store := mocks.NewDocumentStore(&entities.Dictionary{Words: []entities.Entry{
		{Ref: entities.EntryRef{ID: 1, Form: "zas"}},
		{Ref: entities.EntryRef{ID: 2, Form: "kasaz"}},
	}})
	dict := services.NewDictionaryService(store, mocks.NewJournal(), nil, nil)
	_, err := dict.Load(testContext(t))
	require.NoError(t, err)

	installer := &recordingInstaller{}
	return NewEntryHandler(dict, installer), dict, installer
}

func TestEntryHandler_HandleAdd(t *testing.T) {
	handler, _, installer := newEntryHandler(t)

	m, err := handler.HandleAdd(testContext(t), DraftInput{
		Form:         "zasik",
		Translations: []string{"noun:speaker, talker"},
		Usage:        "Informal.",
		Relations:    []string{"hypernym:1"},
	})
	require.NoError(t, err)

	assert.Equal(t, entities.EntryID(3), m.Entry.ID())
	assert.Equal(t, []entities.Translation{{Title: "noun", Forms: []string{"speaker", "talker"}}}, m.Entry.Translations)
	assert.Equal(t, []entities.Content{{Title: entities.ContentUsage, Text: "Informal."}}, m.Entry.Contents)
	require.Len(t, installer.installed, 1)
	assert.Same(t, m.Snapshot, installer.installed[0])

	infos, err := handler.HandleRelations(testContext(t), 1)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, entities.KindHyponym, infos[0].Kind)
	assert.Equal(t, "zasik", infos[0].Form())
}

func TestEntryHandler_HandleAddInvalidRelation(t *testing.T) {
	handler, _, installer := newEntryHandler(t)

	_, err := handler.HandleAdd(testContext(t), DraftInput{Form: "zasik", Relations: []string{"cousin:1"}})
	assert.ErrorIs(t, err, entities.ErrInvalidRelationKind)
	assert.Empty(t, installer.installed)
}

func TestEntryHandler_HandleEdit(t *testing.T) {
	handler, _, installer := newEntryHandler(t)

	_, err := handler.HandleEdit(testContext(t), 1, DraftInput{Relations: []string{"synonym:2"}})
	require.NoError(t, err)

	m, err := handler.HandleEdit(testContext(t), 1, DraftInput{Form: "zaz", Unrelate: []entities.EntryID{2}})
	require.NoError(t, err)
	assert.Equal(t, "zaz", m.Entry.Form())
	assert.Empty(t, m.Entry.Relations)
	assert.Len(t, installer.installed, 2)

	// The reciprocal on kasaz stays, now showing the new form.
	infos, err := handler.HandleRelations(testContext(t), 2)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "zaz", infos[0].CachedForm)

	_, err = handler.HandleEdit(testContext(t), 9, DraftInput{Form: "x"})
	assert.ErrorIs(t, err, entities.ErrEntryNotFound)
}

func TestEntryHandler_HandleDeleteAndRelations(t *testing.T) {
	handler, dict, _ := newEntryHandler(t)

	_, err := handler.HandleEdit(testContext(t), 1, DraftInput{Relations: []string{"related:2"}})
	require.NoError(t, err)

	_, err = handler.HandleDelete(testContext(t), 2)
	require.NoError(t, err)

	infos, err := handler.HandleRelations(testContext(t), 1)
	require.NoError(t, err)
	assert.Empty(t, infos, "delete scrubs relations to the deleted entry")

	// A relation that survived a concurrent delete falls back to its cache.
	zas, err := dict.Resolve(1)
	require.NoError(t, err)
	zas.Relations = []entities.Relation{{Title: entities.KindReference, Entry: entities.EntryRef{ID: 2, Form: "kasaz"}}}
	_, err = dict.Edit(testContext(t), 1, zas)
	require.NoError(t, err)

	infos, err = handler.HandleRelations(testContext(t), 1)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.True(t, infos[0].Dangling)
	assert.Equal(t, "kasaz", infos[0].Form())

	_, err = handler.HandleRelations(testContext(t), 2)
	assert.ErrorIs(t, err, entities.ErrEntryNotFound)
}

func TestEntryHandler_HandleShow(t *testing.T) {
	handler, _, _ := newEntryHandler(t)

	detail, err := handler.HandleShow(testContext(t), 2)
	require.NoError(t, err)
	assert.Equal(t, "Word: kasaz", detail.Detail)

	_, err = handler.HandleShow(testContext(t), 42)
	assert.ErrorIs(t, err, entities.ErrEntryNotFound)
}

func TestApplyDraft(t *testing.T) {
	base := entities.Entry{
		Ref:          entities.EntryRef{ID: 1, Form: "zas"},
		Translations: []entities.Translation{{Title: "noun", Forms: []string{"language"}}},
		Tags:         []string{"old"},
		Contents:     []entities.Content{{Title: entities.ContentUsage, Text: "before"}},
	}

	got, err := ApplyDraft(base, DraftInput{
		Tags:       []string{"basic、core"},
		Usage:      "after",
		Etymology:  "From zaz.",
		Variations: []string{"plural:zasi", "empty: "},
	}, []string{",", "、"})
	require.NoError(t, err)

	assert.Equal(t, "zas", got.Form())
	assert.Equal(t, base.Translations, got.Translations)
	assert.Equal(t, []string{"basic", "core"}, got.Tags)
	assert.Equal(t, []entities.Content{
		{Title: entities.ContentUsage, Text: "after"},
		{Title: entities.ContentEtymology, Text: "From zaz."},
	}, got.Contents)
	assert.Equal(t, []entities.Variation{{Title: "plural", Form: "zasi"}}, got.Variations)
	assert.Equal(t, "before", base.Contents[0].Text, "base is not modified")
}

func TestParseRelation(t *testing.T) {
	tests := []struct {
		input    string
		expected entities.Relation
		wantErr  bool
	}{
		{input: "synonym:12", expected: entities.Relation{Title: entities.KindSynonym, Entry: entities.EntryRef{ID: 12}}},
		{input: "上位語: 3", expected: entities.Relation{Title: entities.KindHypernym, Entry: entities.EntryRef{ID: 3}}},
		{input: "synonym", wantErr: true},
		{input: "synonym:abc", wantErr: true},
		{input: "friend:1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRelation(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
