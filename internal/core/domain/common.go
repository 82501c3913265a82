package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// Category classifies charities and projects.
type Category string

const (
	CategoryEducation      Category = "education"
	CategoryHealthcare     Category = "healthcare"
	CategoryEnvironment    Category = "environment"
	CategoryPoverty        Category = "poverty"
	CategoryDisasterRelief Category = "disaster-relief"
	CategoryAnimalWelfare  Category = "animal-welfare"
	CategoryHumanRights    Category = "human-rights"
	CategoryArtsCulture    Category = "arts-culture"
	CategoryCommunity      Category = "community-development"
	CategoryOther          Category = "other"
)

// Currency identifies the denomination a donation was made in.
type Currency string

const (
	CurrencyETH   Currency = "ETH"
	CurrencyMATIC Currency = "MATIC"
	CurrencyUSD   Currency = "USD"
)
