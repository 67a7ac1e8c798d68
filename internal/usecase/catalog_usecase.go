package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/mayankmishra0403/printhub/internal/domain/pricing"
)

type CatalogUsecase struct {
	catalog *pricing.Catalog
}

func NewCatalogUsecase(catalog *pricing.Catalog) *CatalogUsecase {
	return &CatalogUsecase{catalog: catalog}
}

type CatalogOutput struct {
	Services            []pricing.Service   `json:"services"`
	PaperTypes          []pricing.PaperType `json:"paper_types"`
	EmergencyMultiplier decimal.Decimal     `json:"emergency_multiplier"`
	Currency            string              `json:"currency"`
}

func (u *CatalogUsecase) Catalog() CatalogOutput {
	return CatalogOutput{
		Services:            u.catalog.Services(),
		PaperTypes:          u.catalog.PaperTypes(),
		EmergencyMultiplier: u.catalog.EmergencyMultiplier(),
		Currency:            "INR",
	}
}

type QuoteInput struct {
	ServiceType   string
	NumberOfPages *int
	PaperType     string
	IsEmergency   bool
}

type QuoteOutput struct {
	Amount decimal.Decimal `json:"amount"`
	// Pending is set for services without a list price.
	Pending bool `json:"quote_pending"`
}

func (u *CatalogUsecase) Quote(in QuoteInput) QuoteOutput {
	_, known := u.catalog.Service(in.ServiceType)
	return QuoteOutput{
		Amount:  u.catalog.Price(toQuote(in)),
		Pending: !known,
	}
}

func toQuote(in QuoteInput) pricing.Quote {
	paper := in.PaperType
	if paper == "" {
		paper = pricing.DefaultPaperType
	}
	return pricing.Quote{
		ServiceType: in.ServiceType,
		PageCount:   in.NumberOfPages,
		PaperTypeID: paper,
		IsEmergency: in.IsEmergency,
	}
}
