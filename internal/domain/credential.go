package domain

import "time"

// Credential stores a user's salted password hash together with the hashing
// parameters in force when it was written, so verification survives policy
// changes. Usernames are unique and case-sensitive.
type Credential struct {
	Username    string     `gorm:"type:varchar(255);primaryKey" json:"-"`
	Algo        string     `gorm:"type:text;not null" json:"algo"`
	Hash        []byte     `gorm:"type:bytea;not null" json:"hash"`
	Salt        []byte     `gorm:"type:bytea;not null" json:"salt"`
	ParamsJSON  []byte     `gorm:"type:jsonb;not null" json:"params"`
	PasswordVer int        `gorm:"not null;default:1" json:"password_ver"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

func (Credential) TableName() string { return "users" }

func (c *Credential) GetAlgo() string       { return c.Algo }
func (c *Credential) GetHash() []byte       { return c.Hash }
func (c *Credential) GetSalt() []byte       { return c.Salt }
func (c *Credential) GetParamsJSON() []byte { return c.ParamsJSON }
func (c *Credential) GetPasswordVer() int   { return c.PasswordVer }
