// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package recommend

import (
	"strings"
)

// Unknown is the category used for any missing or blank preference value.
const Unknown = "unknown"

// BudgetKey is the answer key of the final questionnaire step.
const BudgetKey = "budget"

// Attribute identifies one of the fixed categorical preference fields.
type Attribute string

// Preference attributes in questionnaire order.
const (
	AttrInterest                Attribute = "interest"
	AttrCosmeticObjective       Attribute = "cosmetic_objective"
	AttrSkinConcern             Attribute = "skin_concern"
	AttrCosmeticPreference      Attribute = "cosmetic_preference"
	AttrSkinType                Attribute = "skin_type"
	AttrHairType                Attribute = "hair_type"
	AttrLocalBrandsUsed         Attribute = "local_brands_used"
	AttrInternationalPreference Attribute = "international_preference"
	AttrLocalVsInternational    Attribute = "local_vs_international"
	AttrPurchaseChannel         Attribute = "purchase_channel"
	AttrPurchaseCriterion       Attribute = "purchase_criterion"
)

// Attributes is the fixed, ordered preference attribute set.
// The order defines the one-hot block layout of the encoder.
var Attributes = []Attribute{
	AttrInterest,
	AttrCosmeticObjective,
	AttrSkinConcern,
	AttrCosmeticPreference,
	AttrSkinType,
	AttrHairType,
	AttrLocalBrandsUsed,
	AttrInternationalPreference,
	AttrLocalVsInternational,
	AttrPurchaseChannel,
	AttrPurchaseCriterion,
}

// Preferences is a typed preference record. An empty field means unknown.
type Preferences struct {
	Interest                string `json:"interest,omitempty"`
	CosmeticObjective       string `json:"cosmetic_objective,omitempty"`
	SkinConcern             string `json:"skin_concern,omitempty"`
	CosmeticPreference      string `json:"cosmetic_preference,omitempty"`
	SkinType                string `json:"skin_type,omitempty"`
	HairType                string `json:"hair_type,omitempty"`
	LocalBrandsUsed         string `json:"local_brands_used,omitempty"`
	InternationalPreference string `json:"international_preference,omitempty"`
	LocalVsInternational    string `json:"local_vs_international,omitempty"`
	PurchaseChannel         string `json:"purchase_channel,omitempty"`
	PurchaseCriterion       string `json:"purchase_criterion,omitempty"`
}

// Value returns the raw value stored for an attribute.
func (p *Preferences) Value(a Attribute) string {
	switch a {
	case AttrInterest:
		return p.Interest
	case AttrCosmeticObjective:
		return p.CosmeticObjective
	case AttrSkinConcern:
		return p.SkinConcern
	case AttrCosmeticPreference:
		return p.CosmeticPreference
	case AttrSkinType:
		return p.SkinType
	case AttrHairType:
		return p.HairType
	case AttrLocalBrandsUsed:
		return p.LocalBrandsUsed
	case AttrInternationalPreference:
		return p.InternationalPreference
	case AttrLocalVsInternational:
		return p.LocalVsInternational
	case AttrPurchaseChannel:
		return p.PurchaseChannel
	case AttrPurchaseCriterion:
		return p.PurchaseCriterion
	default:
		return ""
	}
}

// Set stores a value for an attribute. Unrecognized attributes are ignored.
func (p *Preferences) Set(a Attribute, v string) {
	switch a {
	case AttrInterest:
		p.Interest = v
	case AttrCosmeticObjective:
		p.CosmeticObjective = v
	case AttrSkinConcern:
		p.SkinConcern = v
	case AttrCosmeticPreference:
		p.CosmeticPreference = v
	case AttrSkinType:
		p.SkinType = v
	case AttrHairType:
		p.HairType = v
	case AttrLocalBrandsUsed:
		p.LocalBrandsUsed = v
	case AttrInternationalPreference:
		p.InternationalPreference = v
	case AttrLocalVsInternational:
		p.LocalVsInternational = v
	case AttrPurchaseChannel:
		p.PurchaseChannel = v
	case AttrPurchaseCriterion:
		p.PurchaseCriterion = v
	}
}

// Normalized returns a copy where every blank attribute holds Unknown.
func (p Preferences) Normalized() Preferences {
	out := p
	for _, a := range Attributes {
		if strings.TrimSpace(out.Value(a)) == "" {
			out.Set(a, Unknown)
		}
	}
	return out
}

// PreferencesFromAnswers builds a record from questionnaire answers.
// Keys that are not preference attributes (such as budget) are skipped.
func PreferencesFromAnswers(answers map[string]string) Preferences {
	var p Preferences
	for _, a := range Attributes {
		p.Set(a, answers[string(a)])
	}
	return p
}

// BudgetTier is a coarse spending category.
type BudgetTier string

// Budget tiers. BudgetNone marks an absent or unparseable tier.
const (
	BudgetNone   BudgetTier = ""
	BudgetLow    BudgetTier = "low"
	BudgetMedium BudgetTier = "medium"
	BudgetHigh   BudgetTier = "high"
)

// ParseBudgetTier maps a free-form answer to a tier.
// French labels from the questionnaire are accepted alongside English.
func ParseBudgetTier(s string) BudgetTier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "faible":
		return BudgetLow
	case "medium", "moyen":
		return BudgetMedium
	case "high", "élevé", "eleve", "elevé", "élevée":
		return BudgetHigh
	default:
		return BudgetNone
	}
}

// UserProfile is one respondent row from the profile store.
type UserProfile struct {
	ID              int64       `json:"id"`
	Preferences     Preferences `json:"preferences"`
	Budget          BudgetTier  `json:"budget,omitempty"`
	PurchaseHistory []int64     `json:"purchase_history,omitempty"`
}

// Product is one catalog item.
type Product struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Brand      string  `json:"brand"`
	CategoryID int64   `json:"category_id"`
	UnitPrice  float64 `json:"unit_price"`
}

// RecommendationTable maps a cluster id to its ranked shortlist.
type RecommendationTable map[int][]Product

// ClusterProfile is the most frequent answer per attribute within a cluster.
type ClusterProfile map[string]string
