package user

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/princebhanderi/ed-tech-platform/core"
)

// Role is a User's account type.
type Role string

const (
	RoleStudent    Role = "Student"
	RoleInstructor Role = "Instructor"
	RoleAdmin      Role = "Admin"
)

var AllRoles = []Role{RoleStudent, RoleInstructor, RoleAdmin}

// ParseRole matches s case-insensitively against AllRoles.
func ParseRole(s string) (Role, bool) {
	s = core.CleanString(s)
	for _, r := range AllRoles {
		if strings.EqualFold(string(r), s) {
			return r, true
		}
	}
	return "", false
}

type User struct {
	ID                primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	FirstName         string               `json:"firstName" bson:"firstName"`
	LastName          string               `json:"lastName" bson:"lastName"`
	Email             string               `json:"email" bson:"email"`
	PasswordHash      string               `json:"-" bson:"password"`
	AccountType       Role                 `json:"accountType" bson:"accountType"`
	AdditionalDetails *primitive.ObjectID  `json:"additionalDetails,omitempty" bson:"additionalDetails,omitempty"` // owned Profile
	EnrolledCourses   []primitive.ObjectID `json:"courses" bson:"courses"`
	Image             string               `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt         time.Time            `json:"createdAt" bson:"createdAt"` // UTC
	UpdatedAt         time.Time            `json:"updatedAt" bson:"updatedAt"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pwd))
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsAdmin() bool      { return u.AccountType == RoleAdmin }
func (u *User) IsInstructor() bool { return u.AccountType == RoleInstructor }
func (u *User) IsStudent() bool    { return u.AccountType == RoleStudent }

// Profile holds the optional details of exactly one User.
type Profile struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Gender        string             `json:"gender,omitempty" bson:"gender,omitempty"`
	DateOfBirth   string             `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	About         string             `json:"about,omitempty" bson:"about,omitempty"`
	ContactNumber string             `json:"contactNumber,omitempty" bson:"contactNumber,omitempty"`
}

// NewAdmin contains information needed to create (or promote) an Admin.
type NewAdmin struct {
	FirstName string `json:"firstName" validate:"required,notblank"`
	LastName  string `json:"lastName" validate:"required,notblank"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

func (na *NewAdmin) Clean() {
	na.FirstName = core.CleanString(na.FirstName)
	na.LastName = core.CleanString(na.LastName)
	na.Email = core.CleanString(na.Email, true /* lower */)
}

// QueryFilter narrows QueryUsers. Zero fields match everything.
type QueryFilter struct {
	Search string `query:"search"`
	Role   Role   `query:"role"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	if r, ok := ParseRole(string(qf.Role)); ok {
		qf.Role = r
	}
}

// Match applies the filter in memory: Search is a case-insensitive match on one of FirstName, LastName or Email.
func (qf QueryFilter) Match(usr User) bool {
	if qf.Role != "" && usr.AccountType != qf.Role {
		return false
	}
	if qf.Search == "" {
		return true
	}
	s := strings.ToLower(qf.Search)
	return strings.Contains(strings.ToLower(usr.FirstName), s) ||
		strings.Contains(strings.ToLower(usr.LastName), s) ||
		strings.Contains(strings.ToLower(usr.Email), s)
}
