package domain

// CharityFilter narrows charity listings. Zero values mean no filter.
type CharityFilter struct {
	Status   CharityStatus
	Category Category
	Search   string
	Limit    int
	Offset   int
}

// ProjectFilter narrows project listings. Zero values mean no filter.
type ProjectFilter struct {
	Status    ProjectStatus
	Category  Category
	CharityID string
	Featured  *bool
	Urgency   Urgency
	Limit     int
	Offset    int
}

// DonationFilter narrows donation listings. Zero values mean no filter.
type DonationFilter struct {
	Status    DonationStatus
	DonorID   string
	ProjectID string
	CharityID string
	Limit     int
	Offset    int
}
