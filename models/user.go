package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role tags which variant of Actor a record is.
type Role string

const (
	RoleCitizen  Role = "citizen"
	RoleOfficial Role = "official"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCitizen || r == RoleOfficial
}

// CitizenDetails holds the fields only citizens carry.
type CitizenDetails struct {
	Address string `bson:"address" json:"address"`
}

// OfficialDetails holds the fields only officials carry.
type OfficialDetails struct {
	Department string `bson:"department" json:"department"`
}

// Actor is a citizen or official account. Exactly one of Citizen and
// Official is set, matching Role.
type Actor struct {
	ID           int64            `bson:"_id" json:"id"`
	Username     string           `bson:"username" json:"username"`
	PasswordHash string           `bson:"passwordHash" json:"passwordHash"`
	Fullname     string           `bson:"fullname" json:"fullname"`
	Age          int              `bson:"age" json:"age"`
	Role         Role             `bson:"role" json:"role"`
	PhotoRef     *string          `bson:"photo,omitempty" json:"photo,omitempty"`
	Citizen      *CitizenDetails  `bson:"citizen,omitempty" json:"citizen,omitempty"`
	Official     *OfficialDetails `bson:"official,omitempty" json:"official,omitempty"`
	CreatedAt    time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// Address returns the citizen address, or "" for officials.
func (a *Actor) Address() string {
	if a.Citizen == nil {
		return ""
	}
	return a.Citizen.Address
}

// Department returns the official department, or "" for citizens.
func (a *Actor) Department() string {
	if a.Official == nil {
		return ""
	}
	return a.Official.Department
}

func (a *Actor) SetPassword(plain string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hashed)
	return nil
}

func (a *Actor) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(candidate))
	return err == nil
}

// PublicProfile is an Actor without credential material.
type PublicProfile struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Fullname   string    `json:"fullname"`
	Age        int       `json:"age"`
	Role       Role      `json:"role"`
	Address    string    `json:"address,omitempty"`
	Department string    `json:"department,omitempty"`
	PhotoRef   *string   `json:"photo"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (a *Actor) Profile() PublicProfile {
	return PublicProfile{
		ID:         a.ID,
		Username:   a.Username,
		Fullname:   a.Fullname,
		Age:        a.Age,
		Role:       a.Role,
		Address:    a.Address(),
		Department: a.Department(),
		PhotoRef:   a.PhotoRef,
		CreatedAt:  a.CreatedAt,
	}
}

// Summary is what login hands back to the client.
type Summary struct {
	ID       int64  `json:"id"`
	Fullname string `json:"fullname"`
	Role     Role   `json:"role"`
	Username string `json:"username"`
}

func (a *Actor) Summary() Summary {
	return Summary{ID: a.ID, Fullname: a.Fullname, Role: a.Role, Username: a.Username}
}

// Session identifies the authenticated actor behind a request.
type Session struct {
	ActorID  int64
	Role     Role
	Username string
}

// Clone returns a deep copy of a.
func (a Actor) Clone() Actor {
	if a.PhotoRef != nil {
		p := *a.PhotoRef
		a.PhotoRef = &p
	}
	if a.Citizen != nil {
		c := *a.Citizen
		a.Citizen = &c
	}
	if a.Official != nil {
		o := *a.Official
		a.Official = &o
	}
	return a
}
