package model

import "time"

// DomainTerm declares a metadata field (term) of a model whose values are
// looked up in the bound authorities. A nil Model applies to any model.
type DomainTerm struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Model     *string   `gorm:"column:model"`
	Term      string    `gorm:"column:term;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (DomainTerm) TableName() string {
	return "domain_terms"
}

// DomainTermAuthority binds an Authority to a DomainTerm
type DomainTermAuthority struct {
	DomainTermID int64 `gorm:"column:domain_term_id;primaryKey"`
	AuthorityID  int64 `gorm:"column:local_authority_id;primaryKey"`
}

func (DomainTermAuthority) TableName() string {
	return "domain_terms_local_authorities"
}
