package token

// Repo stores one Credential per user. Upsert overwrites any previous credential.
type Repo interface {
	Upsert(credential *Credential) error
	Get(userID string) (*Credential, error)
	Delete(userID string) error
	Count() int
}
