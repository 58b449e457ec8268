package entity

import "time"

// SkillLevel is the minimum skill a course expects.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

type Course struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Weeks                int        `json:"weeks"`
	Tuition              float64    `json:"tuition"`
	MinimumSkill         SkillLevel `json:"minimumSkill"`
	ScholarshipAvailable bool       `json:"scholarshipAvailable"`
	BootcampID           string     `json:"bootcamp"`
	UserID               string     `json:"user"`
	CreatedAt            time.Time  `json:"createdAt"`
}
