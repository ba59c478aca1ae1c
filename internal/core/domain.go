package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	StatusActive   ClientStatus = "Actif"
	StatusInactive ClientStatus = "Inactif"
	StatusProspect ClientStatus = "Prospect"

	SubscriptionActive   Subscription = "Actif"
	SubscriptionInactive Subscription = "Inactif"

	InvoicePaid   InvoiceStatus = "Payé"
	InvoiceUnpaid InvoiceStatus = "Non payé"

	ProjectActive    ProjectStatus = "Actif"
	ProjectProspect  ProjectStatus = "Prospect"
	ProjectCompleted ProjectStatus = "Terminé"

	GoalFinancial   GoalType = "Financier"
	GoalClientCount GoalType = "Client"
)

type (
	ClientStatus  string
	Subscription  string
	InvoiceStatus string
	ProjectStatus string
	GoalType      string

	// ProjectCounts is the per-client project tally shown on the clients table.
	ProjectCounts struct {
		InProgress int `json:"enCours"`
		Active     int `json:"actifs"`
		Completed  int `json:"termines"`
	}

	// Client is one record of the `clients` collection. Revenue (caTotal) is
	// denormalized: it mirrors the invoice collection and is rewritten by the
	// revenue sync, never edited directly.
	Client struct {
		ID           string        `json:"id"`
		Company      string        `json:"entreprise"`
		Owner        string        `json:"patron"`
		Phone        string        `json:"telephone"`
		Email        string        `json:"email"`
		Status       ClientStatus  `json:"statut"`
		Subscription Subscription  `json:"abonnement,omitempty"`
		Revenue      int64         `json:"caTotal"`
		Projects     ProjectCounts `json:"projets"`
		LastActivity Date          `json:"derniereActivite"`
	}

	// Invoice is one record of the `factures` collection. Company is a
	// free-text match against Client.Company, not a referential id.
	Invoice struct {
		ID           string        `json:"id"`
		Number       string        `json:"numeroFacture"`
		Company      string        `json:"entreprise"`
		Status       InvoiceStatus `json:"statut"`
		Date         Date          `json:"date"`
		Price        int64         `json:"prix"`
		Subscription Subscription  `json:"abonnement"`
	}

	// Project is one record of the `projets` collection.
	Project struct {
		ID          string        `json:"id"`
		Name        string        `json:"nom"`
		Company     string        `json:"entreprise"`
		Status      ProjectStatus `json:"statut"`
		Value       int64         `json:"valeur"`
		StartDate   Date          `json:"dateDebut"`
		EndDate     Date          `json:"dateFin"`
		Responsible string        `json:"responsable"`
		Comment     string        `json:"commentaire"`
	}

	// Goal is one record of the `objectifs` collection. The stored date range
	// is kept for display but does not restrict progress computation.
	Goal struct {
		ID        string   `json:"id"`
		Type      GoalType `json:"type"`
		Label     string   `json:"libelle"`
		Target    int64    `json:"objectif"`
		StartDate Date     `json:"dateDebut"`
		EndDate   Date     `json:"dateFin"`
	}
)

var (
	ErrEmptyCompany     = errors.New("empty company name")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrNegativeAmount   = errors.New("negative amount")
	ErrEmptyLabel       = errors.New("empty label")
	ErrInvalidGoalType  = errors.New("invalid goal type")
	ErrEmptyProjectName = errors.New("empty project name")
	ErrEmptyInvoiceNum  = errors.New("empty invoice number")
)

// NewID derives a record identifier from the wall clock, matching the ids
// already present in stored collections (millisecond timestamps as strings).
func NewID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// InvoiceNumber formats the sequential invoice number for the given one-based
// position in the collection: FAC-000001, FAC-000002, ...
func InvoiceNumber(seq int) string {
	n := strconv.Itoa(seq)
	if len(n) < 6 {
		n = strings.Repeat("0", 6-len(n)) + n
	}
	return "FAC-" + n
}

func (s ClientStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusProspect:
		return true
	}
	return false
}

func (s Subscription) Valid() bool {
	return s == SubscriptionActive || s == SubscriptionInactive
}

func (s InvoiceStatus) Valid() bool {
	return s == InvoicePaid || s == InvoiceUnpaid
}

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectProspect, ProjectCompleted:
		return true
	}
	return false
}

func (t GoalType) Valid() bool {
	return t == GoalFinancial || t == GoalClientCount
}

func (c Client) Validate() error {
	if strings.TrimSpace(c.Company) == "" {
		return ErrEmptyCompany
	}
	if !c.Status.Valid() {
		return ErrInvalidStatus
	}
	if c.Subscription != "" && !c.Subscription.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (f Invoice) Validate() error {
	if strings.TrimSpace(f.Number) == "" {
		return ErrEmptyInvoiceNum
	}
	if strings.TrimSpace(f.Company) == "" {
		return ErrEmptyCompany
	}
	if !f.Status.Valid() {
		return ErrInvalidStatus
	}
	if f.Price < 0 {
		return ErrNegativeAmount
	}
	return nil
}

func (p Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyProjectName
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	if p.Value < 0 {
		return ErrNegativeAmount
	}
	return nil
}

func (g Goal) Validate() error {
	if !g.Type.Valid() {
		return ErrInvalidGoalType
	}
	if strings.TrimSpace(g.Label) == "" {
		return ErrEmptyLabel
	}
	if g.Target < 0 {
		return ErrNegativeAmount
	}
	return nil
}
