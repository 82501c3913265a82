package mapping

import (
	"github.com/givetrack/givetrack_backend/internal/core/domain"
	"github.com/givetrack/givetrack_backend/internal/models"
)

// ToModelCharity converts a domain Charity to a model Charity.
func ToModelCharity(d domain.Charity) models.Charity {
	return models.Charity{
		CharityID:          d.CharityID,
		Name:               d.Name,
		Description:        d.Description,
		Email:              d.Email,
		Website:            d.Website,
		Category:           string(d.Category),
		RegistrationNumber: d.RegistrationNumber,
		TaxID:              d.TaxID,
		OwnerUserID:        d.OwnerUserID,
		WalletAddress:      d.WalletAddress,
		Status:             string(d.Status),
		VerificationDate:   d.VerificationDate,
		VerifiedBy:         d.VerifiedBy,
		RejectionReason:    d.RejectionReason,
		IsActive:           d.IsActive,
		TotalReceived:      d.Stats.TotalReceived,
		TotalProjects:      d.Stats.TotalProjects,
		CompletedProjects:  d.Stats.CompletedProjects,
		TotalDonors:        d.Stats.TotalDonors,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCharity converts a model Charity to a domain Charity.
func ToDomainCharity(m models.Charity) domain.Charity {
	return domain.Charity{
		CharityID:          m.CharityID,
		Name:               m.Name,
		Description:        m.Description,
		Email:              m.Email,
		Website:            m.Website,
		Category:           domain.Category(m.Category),
		RegistrationNumber: m.RegistrationNumber,
		TaxID:              m.TaxID,
		OwnerUserID:        m.OwnerUserID,
		WalletAddress:      m.WalletAddress,
		Status:             domain.CharityStatus(m.Status),
		VerificationDate:   m.VerificationDate,
		VerifiedBy:         m.VerifiedBy,
		RejectionReason:    m.RejectionReason,
		IsActive:           m.IsActive,
		Stats: domain.CharityStats{
			TotalReceived:     m.TotalReceived,
			TotalProjects:     m.TotalProjects,
			CompletedProjects: m.CompletedProjects,
			TotalDonors:       m.TotalDonors,
		},
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCharitySlice converts a slice of model Charities to domain Charities.
func ToDomainCharitySlice(ms []models.Charity) []domain.Charity {
	ds := make([]domain.Charity, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCharity(m)
	}
	return ds
}
