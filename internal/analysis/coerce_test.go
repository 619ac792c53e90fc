package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) Fields {
	t.Helper()
	f, err := Parse(raw)
	require.NoError(t, err)
	return f
}

func TestCoerceNameWithNullSkills(t *testing.T) {
	a := Coerce(mustParse(t, "```json\n{\"name\": \"Ada\", \"skills\": null}\n```"))

	require.NotNil(t, a.Name)
	assert.Equal(t, "Ada", *a.Name)
	assert.Nil(t, a.Skills)
	assert.Equal(t, Analysis{Name: a.Name}, a)
	assert.False(t, a.IsEmpty())
}

func TestCoerceMissingFieldsStayAbsent(t *testing.T) {
	a := Coerce(Fields{})
	assert.True(t, a.IsEmpty())

	out, err := json.Marshal(a)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	for _, key := range ContractKeys {
		v, ok := decoded[key]
		assert.True(t, ok, "key %s should be present on the wire", key)
		assert.Nil(t, v, "key %s should be null", key)
	}
}

func TestCoerceFullReply(t *testing.T) {
	raw := `{
	  "name": "Grace Hopper",
	  "email": "grace@example.com",
	  "phone": 5551234,
	  "summary": "Compiler pioneer.",
	  "links": [{"label": "GitHub", "url": "https://github.com/grace"}, "https://grace.dev", 42],
	  "skills": {"technical": ["COBOL", "COBOL"], "soft": "Leadership", "tools": null},
	  "work_experience": [
	    {"company": "US Navy", "role": "Rear Admiral", "dates": "1943-1986", "responsibilities": ["Led", "Taught"]},
	    "not a job"
	  ],
	  "education": {"institution": "Yale", "degree": "PhD", "year": 1934},
	  "projects": [{"name": "A-0", "technologies": ["UNIVAC"]}],
	  "resume_rating": 9,
	  "improvement_areas": ["Add metrics", null, true],
	  "upskill_suggestions": ["Learn Go", {"skill": "Kubernetes", "reason": "ops"}, null]
	}`
	a := Coerce(mustParse(t, raw))

	assert.Equal(t, "Grace Hopper", *a.Name)
	assert.Equal(t, "5551234", *a.Phone)
	assert.Equal(t, []Link{
		{Label: "GitHub", URL: "https://github.com/grace"},
		{URL: "https://grace.dev"},
	}, a.Links)
	require.NotNil(t, a.Skills)
	assert.Equal(t, []string{"COBOL", "COBOL"}, a.Skills.Technical)
	assert.Equal(t, []string{"Leadership"}, a.Skills.Soft)
	assert.Nil(t, a.Skills.Tools)
	require.Len(t, a.WorkExperience, 1)
	assert.Equal(t, []string{"Led", "Taught"}, a.WorkExperience[0].Responsibilities)
	assert.Equal(t, []Education{{Institution: "Yale", Degree: "PhD", Year: "1934"}}, a.Education)
	assert.Equal(t, []Project{{Name: "A-0", Technologies: []string{"UNIVAC"}}}, a.Projects)
	require.NotNil(t, a.ResumeRating)
	assert.Equal(t, 9, *a.ResumeRating)
	assert.Equal(t, []string{"Add metrics", "true"}, a.ImprovementAreas)
	assert.Equal(t, []any{"Learn Go", map[string]any{"skill": "Kubernetes", "reason": "ops"}}, a.UpskillSuggestions)
}

func TestCoerceWrongTypesDegrade(t *testing.T) {
	a := Coerce(Fields{
		KeyName:           map[string]any{"first": "Ada"},
		KeyEmail:          []any{"a@example.com"},
		KeyLinks:          "https://ada.dev",
		KeySkills:         "Go",
		KeyWorkExperience: "lots",
		KeyResumeRating:   "excellent",
	})
	assert.Nil(t, a.Name)
	assert.Nil(t, a.Email)
	assert.Nil(t, a.Links)
	assert.Nil(t, a.Skills)
	assert.Nil(t, a.WorkExperience)
	assert.Nil(t, a.ResumeRating)
}

func TestCoerceFlatSkillsListIsTechnical(t *testing.T) {
	a := Coerce(Fields{KeySkills: []any{"Go", "SQL"}})
	require.NotNil(t, a.Skills)
	assert.Equal(t, []string{"Go", "SQL"}, a.Skills.Technical)
}

func TestCoerceEmptyListStaysEmpty(t *testing.T) {
	a := Coerce(Fields{KeyImprovementAreas: []any{}, KeyProjects: []any{}})
	assert.NotNil(t, a.ImprovementAreas)
	assert.Empty(t, a.ImprovementAreas)
	assert.NotNil(t, a.Projects)
	assert.Empty(t, a.Projects)
}

func TestCoerceRating(t *testing.T) {
	cases := []struct {
		in   any
		want *int
	}{
		{json.Number("7"), ptr(7)},
		{json.Number("7.6"), ptr(8)},
		{json.Number("12"), ptr(12)},
		{json.Number("0"), ptr(0)},
		{float64(6.4), ptr(6)},
		{"8", ptr(8)},
		{" 8/10 ", ptr(8)},
		{"7.5 / 10", ptr(8)},
		{"great", nil},
		{nil, nil},
		{true, nil},
		{json.Number("1e300"), nil},
	}
	for _, tc := range cases {
		got := coerceRating(tc.in)
		if tc.want == nil {
			assert.Nil(t, got, "input %v", tc.in)
			continue
		}
		require.NotNil(t, got, "input %v", tc.in)
		assert.Equal(t, *tc.want, *got, "input %v", tc.in)
	}
}

func ptr(n int) *int { return &n }
