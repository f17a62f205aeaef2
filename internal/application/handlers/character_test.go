package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madnessandcourage/fantranslate/internal/domain/entities"
	"github.com/madnessandcourage/fantranslate/internal/domain/mocks"
)

func newCharacterHandler(t *testing.T, names ...string) (*CharacterHandler, *mocks.Store) {
	t.Helper()
	store := seedStore(t, names...)
	return NewCharacterHandler(store, handlerLanguages()), store
}

func TestCharacterHandler_Create(t *testing.T) {
	h, store := newCharacterHandler(t)

	require.NoError(t, h.Create("Frodo Baggins", "male", []string{"Frodo"}))
	assert.Equal(t, 1, store.Saves)

	characters, err := h.List()
	require.NoError(t, err)
	require.Len(t, characters, 1)
	assert.Equal(t, "Frodo Baggins", characters[0].Name)
	assert.Equal(t, []string{"Frodo"}, characters[0].ShortNames)
	assert.Equal(t, "male", characters[0].Gender)
}

func TestCharacterHandler_Create_DuplicateRejected(t *testing.T) {
	h, _ := newCharacterHandler(t, "Frodo Baggins")

	err := h.Create("Frodo Baggins", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// Fuzzy duplicates are rejected too.
	err = h.Create("Frodo Bagginss", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCharacterHandler_Create_ShortNameEqualsFullName(t *testing.T) {
	h, store := newCharacterHandler(t)

	err := h.Create("Frodo", "", []string{"frodo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be the same")
	assert.Zero(t, store.Saves)
}

func TestCharacterHandler_Search(t *testing.T) {
	h, _ := newCharacterHandler(t, "Frodo Baggins")

	found, ok, err := h.Search("Frodo Baggins")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Frodo Baggins", found.Name)

	_, ok, err = h.Search("Sauron")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCharacterHandler_Info(t *testing.T) {
	h, _ := newCharacterHandler(t, "Frodo Baggins")

	name := "Фродо Бэггинс"
	require.NoError(t, h.EditTranslation("Frodo Baggins", "ru", TranslationEdit{Name: &name}))

	info, err := h.Info("Frodo Baggins")
	require.NoError(t, err)
	assert.Equal(t, "Frodo Baggins", info.Primary.Name)
	require.Contains(t, info.Translations, "ru")
	assert.Equal(t, "Фродо Бэггинс", info.Translations["ru"].Name)

	_, err = h.Info("Sauron")
	assert.ErrorIs(t, err, entities.ErrCharacterNotFound)
}

func TestCharacterHandler_Edit(t *testing.T) {
	h, store := newCharacterHandler(t, "Frodo Baggins")

	newName := "Frodo of the Shire"
	gender := "male"
	modified, err := h.Edit("Frodo Baggins", EditRequest{
		NewName:            &newName,
		Gender:             &gender,
		AddShortNames:      []string{"Frodo"},
		AddCharacteristics: []string{"He carries the ring"},
	})
	require.NoError(t, err)
	assert.True(t, modified)
	assert.Equal(t, 1, store.Saves)

	info, err := h.Info("Frodo of the Shire")
	require.NoError(t, err)
	assert.Equal(t, "Frodo of the Shire", info.Primary.Name)
	assert.Equal(t, []string{"Frodo"}, info.Primary.ShortNames)
	assert.Equal(t, "male", info.Primary.Gender)
	require.Len(t, info.Primary.Characteristics, 1)
	assert.Equal(t, "He carries the ring", info.Primary.Characteristics[0].Sentence)
}

func TestCharacterHandler_Edit_EmptyRequest(t *testing.T) {
	h, store := newCharacterHandler(t, "Frodo Baggins")

	modified, err := h.Edit("Frodo Baggins", EditRequest{})
	require.NoError(t, err)
	assert.False(t, modified)
	assert.Zero(t, store.Saves)
}

func TestCharacterHandler_Edit_Removals(t *testing.T) {
	h, _ := newCharacterHandler(t)
	require.NoError(t, h.Create("Frodo Baggins", "", []string{"Frodo"}))
	_, err := h.Edit("Frodo Baggins", EditRequest{AddCharacteristics: []string{"He is brave"}})
	require.NoError(t, err)

	modified, err := h.Edit("Frodo Baggins", EditRequest{
		RemoveShortNames:      []string{"Frodo"},
		RemoveCharacteristics: []string{"He is brave"},
	})
	require.NoError(t, err)
	assert.True(t, modified)

	info, err := h.Info("Frodo Baggins")
	require.NoError(t, err)
	assert.Empty(t, info.Primary.ShortNames)
	assert.Empty(t, info.Primary.Characteristics)
}

func TestCharacterHandler_Edit_ClearGender(t *testing.T) {
	h, _ := newCharacterHandler(t)
	require.NoError(t, h.Create("Frodo Baggins", "male", nil))

	empty := ""
	modified, err := h.Edit("Frodo Baggins", EditRequest{Gender: &empty})
	require.NoError(t, err)
	assert.True(t, modified)

	info, err := h.Info("Frodo Baggins")
	require.NoError(t, err)
	assert.Empty(t, info.Primary.Gender)
}

func TestCharacterHandler_Edit_NotFound(t *testing.T) {
	h, _ := newCharacterHandler(t, "Frodo Baggins")

	name := "x"
	_, err := h.Edit("Sauron", EditRequest{NewName: &name})
	assert.ErrorIs(t, err, entities.ErrCharacterNotFound)
}

func TestCharacterHandler_EditTranslation(t *testing.T) {
	h, _ := newCharacterHandler(t)
	require.NoError(t, h.Create("Frodo Baggins", "male", nil))
	_, err := h.Edit("Frodo Baggins", EditRequest{AddCharacteristics: []string{"He is brave"}})
	require.NoError(t, err)

	name := "Фродо Бэггинс"
	gender := "мужской"
	err = h.EditTranslation("Frodo Baggins", "ru", TranslationEdit{
		Name:            &name,
		Gender:          &gender,
		Characteristics: map[string]string{"He is brave": "Он храбрый"},
	})
	require.NoError(t, err)

	info, err := h.Info("Frodo Baggins")
	require.NoError(t, err)
	ru := info.Translations["ru"]
	assert.Equal(t, "Фродо Бэггинс", ru.Name)
	assert.Equal(t, "мужской", ru.Gender)
	require.Len(t, ru.Characteristics, 1)
	assert.Equal(t, "Он храбрый", ru.Characteristics[0].Sentence)
}

func TestCharacterHandler_EditTranslation_UnconfiguredLanguage(t *testing.T) {
	h, _ := newCharacterHandler(t, "Frodo Baggins")

	name := "Frodon"
	err := h.EditTranslation("Frodo Baggins", "fr", TranslationEdit{Name: &name})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestCharacterHandler_EditTranslation_GenderUnset(t *testing.T) {
	h, _ := newCharacterHandler(t, "Frodo Baggins")

	gender := "мужской"
	err := h.EditTranslation("Frodo Baggins", "ru", TranslationEdit{Gender: &gender})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no gender to translate")
}

func TestCharacterHandler_Remove(t *testing.T) {
	h, store := newCharacterHandler(t, "Frodo Baggins", "Gandalf")

	removed, err := h.Remove("Gandalf")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Saves)

	// Exact match only; a near miss removes nothing and skips the save.
	removed, err = h.Remove("Frodo")
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Equal(t, 1, store.Saves)
}
