/*
Package profile contains core data structures for member profiles and skills.

It defines the basic representation of a platform member (the User struct)
and the Skill entries a member offers, used for passing profile information
both internally and to clients.
*/
package profile

import (
	"strconv"
	"time"
)

// Skill is one area of expertise offered by a member. Skills are immutable
// once created; there is no edit or delete path.
type Skill struct {

	// ID is unique within a member's skill list. It is generated from the
	// creation timestamp in milliseconds, so two skills issued within the
	// same millisecond could collide. Not globally unique.
	ID string `json:"id"`

	// Name is the display title of the skill.
	Name string `json:"name"`

	// Description explains what the member offers for this skill.
	Description string `json:"description"`
}

// User represents a member profile. Profiles are fabricated on demand, with
// no backing account store, and live only as long as the session
// that holds them.
type User struct {

	// Name is the member's display name.
	Name string `json:"name"`

	// Avatar is the URL of the member's avatar image.
	Avatar string `json:"avatar"`

	// Bio is the member's self-description, fed to the AI profile coach.
	Bio string `json:"bio"`

	// Skills is the ordered, append-only list of skills the member offers.
	Skills []Skill `json:"skills"`
}

// NewSkillID generates a skill identifier from the current timestamp in
// milliseconds.
func NewSkillID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
