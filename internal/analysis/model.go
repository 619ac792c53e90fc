package analysis

// Analysis is the structured career data extracted from one resume.
// Every field is optional: nil means the model did not return a usable value.
//
// Wire shape (snake_case, absent values as null):
//
//	{
//	  "name": "string", "email": "string", "phone": "string", "summary": "string",
//	  "links": [{"label": "string", "url": "string"}],
//	  "skills": {"technical": ["string"], "soft": ["string"], "tools": ["string"]},
//	  "work_experience": [{"company", "role", "dates", "responsibilities": ["string"]}],
//	  "education": [{"institution", "degree", "year"}],
//	  "projects": [{"name", "description", "technologies": ["string"]}],
//	  "resume_rating": 8,
//	  "improvement_areas": ["string"],
//	  "upskill_suggestions": ["string" | {...}]
//	}
type Analysis struct {
	Name               *string     `json:"name"`
	Email              *string     `json:"email"`
	Phone              *string     `json:"phone"`
	Summary            *string     `json:"summary"`
	Links              []Link      `json:"links"`
	Skills             *Skills     `json:"skills"`
	WorkExperience     []Job       `json:"work_experience"`
	Education          []Education `json:"education"`
	Projects           []Project   `json:"projects"`
	ResumeRating       *int        `json:"resume_rating"`
	ImprovementAreas   []string    `json:"improvement_areas"`
	UpskillSuggestions []any       `json:"upskill_suggestions"`
}

type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Tools     []string `json:"tools"`
}

type Job struct {
	Company          string   `json:"company"`
	Role             string   `json:"role"`
	Dates            string   `json:"dates"`
	Responsibilities []string `json:"responsibilities"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

// Fields is the decoded top-level JSON object returned by the model.
type Fields map[string]any

// Field keys in the model contract.
const (
	KeyName               = "name"
	KeyEmail              = "email"
	KeyPhone              = "phone"
	KeySummary            = "summary"
	KeyLinks              = "links"
	KeySkills             = "skills"
	KeyWorkExperience     = "work_experience"
	KeyEducation          = "education"
	KeyProjects           = "projects"
	KeyResumeRating       = "resume_rating"
	KeyImprovementAreas   = "improvement_areas"
	KeyUpskillSuggestions = "upskill_suggestions"
)

// ContractKeys lists the 12 fields the prompt asks for, in prompt order.
var ContractKeys = []string{
	KeyName, KeyEmail, KeyPhone, KeySummary, KeyLinks, KeySkills,
	KeyWorkExperience, KeyEducation, KeyProjects, KeyResumeRating,
	KeyImprovementAreas, KeyUpskillSuggestions,
}

// IsEmpty reports whether no analysis field carries a value.
func (a Analysis) IsEmpty() bool {
	return a.Name == nil && a.Email == nil && a.Phone == nil && a.Summary == nil &&
		a.Links == nil && a.Skills == nil && a.WorkExperience == nil &&
		a.Education == nil && a.Projects == nil && a.ResumeRating == nil &&
		a.ImprovementAreas == nil && a.UpskillSuggestions == nil
}
