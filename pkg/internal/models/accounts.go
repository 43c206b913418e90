package models

// Account is a registered identity. The Token is the opaque identifier
// handed out to collaborators; the numeric ID never leaves the database
// layer. PasswordHash is a one-way argon2id credential, never the secret.
type Account struct {
	BaseModel

	Token         string  `json:"token" gorm:"uniqueIndex"`
	Name          string  `json:"name" gorm:"uniqueIndex"`
	Nick          string  `json:"nick"`
	Avatar        *string `json:"avatar"`
	Description   *string `json:"description"`
	RecoveryEmail *string `json:"recovery_email"`
	PasswordHash  string  `json:"-"`

	Posts []Post `json:"posts,omitempty" gorm:"foreignKey:AuthorID"`
}
