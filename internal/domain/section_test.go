package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTitle(t *testing.T) {
	cases := map[SectionType]string{
		SectionHero:         "Type BIO",
		SectionSummary:      "About me:",
		SectionEducation:    "Education:",
		SectionSkills:       "Skills:",
		SectionProjects:     "Experience:",
		SectionContacts:     "Contacts:",
		SectionLanguage:     "Languages:",
		SectionTechnologies: "Tools/Technologies:",
		SectionCustom:       "Custom section",
	}
	for typ, want := range cases {
		assert.Equal(t, want, DefaultTitle(typ, false), typ)
	}
	assert.Equal(t, "", DefaultTitle(SectionProjects, true))
	assert.Equal(t, "Skills:", DefaultTitle(SectionSkills, true))
}

func TestNewSectionInitialisesCollections(t *testing.T) {
	p := NewSection("a", SectionProjects, false)
	assert.NotNil(t, p.Projects)
	assert.Empty(t, p.Projects)

	l := NewSection("b", SectionLanguage, false)
	assert.NotNil(t, l.Languages)

	tech := NewSection("c", SectionTechnologies, false)
	assert.NotNil(t, tech.Technologies)

	s := NewSection("d", SectionSummary, false)
	assert.Nil(t, s.Projects)
	assert.Nil(t, s.Languages)
	assert.Nil(t, s.Technologies)
}

func TestParseSectionType(t *testing.T) {
	typ, err := ParseSectionType("language")
	require.NoError(t, err)
	assert.Equal(t, SectionLanguage, typ)

	_, err = ParseSectionType("experience")
	assert.ErrorIs(t, err, ErrUnknownSectionType)
}

func TestPatchApplyIsShallow(t *testing.T) {
	orig := Section{
		ID:    "1",
		Type:  SectionProjects,
		Title: "Experience:",
		Projects: []Project{
			{ProjectName: "A", Technologies: []string{"Go"}},
		},
	}

	replaced := ProjectsPatch([]Project{{ProjectName: "B"}}).Apply(orig)
	require.Len(t, replaced.Projects, 1)
	assert.Equal(t, "B", replaced.Projects[0].ProjectName)
	assert.Nil(t, replaced.Projects[0].Technologies)
	assert.Equal(t, "Experience:", replaced.Title)

	// original untouched
	assert.Equal(t, "A", orig.Projects[0].ProjectName)
}

func TestPatchApplyIdempotent(t *testing.T) {
	orig := NewSection("1", SectionLanguage, false)
	patch := LanguagesPatch([]Language{{Name: "French", Level: LevelBeginner}})
	patch.Title = ptr("Langs")

	once := patch.Apply(orig)
	twice := patch.Apply(once)
	assert.Equal(t, once, twice)
}

func TestPatchDoesNotAliasCaller(t *testing.T) {
	techs := []string{"Go"}
	s := TechnologiesPatch(techs).Apply(NewSection("1", SectionTechnologies, false))
	techs[0] = "Rust"
	assert.Equal(t, []string{"Go"}, s.Technologies)
}

func TestSwapAdjacent(t *testing.T) {
	list := []Section{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	out, moved := SwapAdjacent(list, "b", Up)
	assert.True(t, moved)
	assert.Equal(t, []string{"b", "a", "c"}, ids(out))
	assert.Equal(t, []string{"a", "b", "c"}, ids(list))

	_, moved = SwapAdjacent(list, "a", Up)
	assert.False(t, moved)
	_, moved = SwapAdjacent(list, "c", Down)
	assert.False(t, moved)
	_, moved = SwapAdjacent(list, "zzz", Down)
	assert.False(t, moved)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("down")
	require.NoError(t, err)
	assert.Equal(t, Down, d)

	_, err = ParseDirection("left")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func ptr(s string) *string { return &s }

func ids(list []Section) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.ID)
	}
	return out
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []Project{}, Section{Type: SectionProjects}.Normalize().Projects)
	assert.Equal(t, []Language{}, Section{Type: SectionLanguage}.Normalize().Languages)
	assert.Equal(t, []string{}, Section{Type: SectionTechnologies}.Normalize().Technologies)
	assert.Nil(t, Section{Type: SectionSkills}.Normalize().Technologies)

	kept := Section{Type: SectionTechnologies, Technologies: []string{"Go"}}.Normalize()
	assert.Equal(t, []string{"Go"}, kept.Technologies)
}

func TestLanguageLevel(t *testing.T) {
	for _, l := range []LanguageLevel{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelNative, LevelFluent} {
		assert.True(t, l.Valid(), l)
	}
	assert.False(t, LanguageLevel("expert").Valid())
	assert.Equal(t, LevelNative, LevelFluent.Canonical())
	assert.Equal(t, LevelAdvanced, LevelAdvanced.Canonical())
}
