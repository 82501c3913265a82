package mapping

import (
	"github.com/givetrack/givetrack_backend/internal/core/domain"
	"github.com/givetrack/givetrack_backend/internal/models"
)

// ToModelDonation converts a domain Donation to a model Donation.
func ToModelDonation(d domain.Donation) models.Donation {
	return models.Donation{
		DonationID:             d.DonationID,
		DonorID:                d.DonorID,
		ProjectID:              d.ProjectID,
		CharityID:              d.CharityID,
		Amount:                 d.Amount,
		Currency:               string(d.Currency),
		ExchangeRate:           d.ExchangeRate,
		USDAmount:              d.USDAmount,
		Message:                d.Message,
		IsAnonymous:            d.IsAnonymous,
		Status:                 string(d.Status),
		TransactionHash:        d.TransactionHash,
		BlockNumber:            d.BlockNumber,
		GasUsed:                d.GasUsed,
		GasFee:                 d.GasFee,
		DonorWalletAddress:     d.DonorWalletAddress,
		RecipientWalletAddress: d.RecipientWalletAddress,
		FailureReason:          d.FailureReason,
		RefundReason:           d.RefundReason,
		RefundTransactionHash:  d.RefundTransactionHash,
		RefundedAt:             d.RefundedAt,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDonation converts a model Donation to a domain Donation.
func ToDomainDonation(m models.Donation) domain.Donation {
	return domain.Donation{
		DonationID:             m.DonationID,
		DonorID:                m.DonorID,
		ProjectID:              m.ProjectID,
		CharityID:              m.CharityID,
		Amount:                 m.Amount,
		Currency:               domain.Currency(m.Currency),
		ExchangeRate:           m.ExchangeRate,
		USDAmount:              m.USDAmount,
		Message:                m.Message,
		IsAnonymous:            m.IsAnonymous,
		Status:                 domain.DonationStatus(m.Status),
		TransactionHash:        m.TransactionHash,
		BlockNumber:            m.BlockNumber,
		GasUsed:                m.GasUsed,
		GasFee:                 m.GasFee,
		DonorWalletAddress:     m.DonorWalletAddress,
		RecipientWalletAddress: m.RecipientWalletAddress,
		FailureReason:          m.FailureReason,
		RefundReason:           m.RefundReason,
		RefundTransactionHash:  m.RefundTransactionHash,
		RefundedAt:             m.RefundedAt,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDonationSlice converts model Donations to domain Donations.
func ToDomainDonationSlice(ms []models.Donation) []domain.Donation {
	ds := make([]domain.Donation, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDonation(m)
	}
	return ds
}
