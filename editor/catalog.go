package editor

import (
	"strings"
	"time"
	"unicode"
)

var labels = map[string]string{
	"nom_entreprise":        "Nom de l'entreprise",
	"adresse_entreprise":    "Adresse complète",
	"nom_representant":      "Nom du représentant",
	"prenom_employe":        "Prénom de l'employé",
	"nom_employe":           "Nom de l'employé",
	"poste":                 "Poste occupé",
	"salaire":               "Salaire brut (€)",
	"salaire_net":           "Salaire net (€)",
	"date_debut":            "Date de début",
	"date_naissance":        "Date de naissance",
	"lieu_naissance":        "Lieu de naissance",
	"adresse_employe":       "Adresse de l'employé",
	"duree_essai":           "Durée période d'essai",
	"lieu_signature":        "Lieu de signature",
	"date_signature":        "Date de signature",
	"fonction_representant": "Fonction du représentant",
	"nom_client":            "Nom du client",
	"date_aujourd_hui":      "Date d'aujourd'hui",
	"montant_total":         "Montant total",
	"adresse_complete":      "Adresse complète",
	"numero_reference":      "Numéro de référence",
	"email":                 "Adresse email",
}

var requiredFields = map[string]bool{
	"nom_entreprise":   true,
	"nom_representant": true,
	"prenom_employe":   true,
	"nom_employe":      true,
	"poste":            true,
	"salaire":          true,
	"date_debut":       true,
	"nom_client":       true,
	"montant_total":    true,
}

// Label returns the display label for a field. Unknown names get their
// underscores replaced by spaces and each word capitalised.
func Label(name string) string {
	if l, ok := labels[name]; ok {
		return l
	}
	return titleWords(strings.ReplaceAll(name, "_", " "))
}

// IsRequired reports whether the field must be filled in every document.
func IsRequired(name string) bool {
	return requiredFields[name]
}

func titleWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWord := false
	for _, r := range s {
		word := r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
		if word && !inWord {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
		inWord = word
	}
	return b.String()
}

// FieldType is the input kind offered for a field when filling a document.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeTextarea FieldType = "textarea"
	TypeNumber   FieldType = "number"
	TypeDate     FieldType = "date"
	TypeEmail    FieldType = "email"
)

// GuessType picks an input kind from the field name.
func GuessType(name string) FieldType {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "email"):
		return TypeEmail
	case strings.Contains(n, "date"):
		return TypeDate
	case strings.Contains(n, "description"), strings.Contains(n, "commentaire"):
		return TypeTextarea
	case strings.Contains(n, "montant"), strings.Contains(n, "prix"), strings.Contains(n, "salaire"):
		return TypeNumber
	}
	return TypeText
}

var samples = map[string]string{
	"salaire": "3 500 €",
	"poste":   "Développeur Full-Stack",
}

// SampleValue returns example data used when previewing a template.
func SampleValue(name string, now time.Time) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "email"):
		return "contact@example.com"
	case strings.Contains(n, "date"):
		return now.Format("02/01/2006")
	case strings.Contains(n, "nom") && strings.Contains(n, "client"):
		return "Jean Dupont"
	case strings.Contains(n, "nom") && strings.Contains(n, "entreprise"):
		return "ACME Corporation"
	case strings.Contains(n, "adresse"):
		return "123 Rue de la Paix, 75001 Paris"
	case strings.Contains(n, "telephone"), strings.Contains(n, "tel"):
		return "01 23 45 67 89"
	case strings.Contains(n, "montant"), strings.Contains(n, "prix"):
		return "1 250,00 €"
	case strings.Contains(n, "numero"), strings.Contains(n, "ref"):
		return "REF-2024-001"
	case strings.Contains(n, "ville"):
		return "Paris"
	}
	if v, ok := samples[name]; ok {
		return v
	}
	return "[Exemple pour " + strings.ReplaceAll(name, "_", " ") + "]"
}

// FieldItem is one row of the detected fields panel.
type FieldItem struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// FieldListView describes the detected fields panel. Hidden counts the fields
// left out by the display limit.
type FieldListView struct {
	Items  []FieldItem `json:"items"`
	Hidden int         `json:"hidden"`
	Empty  bool        `json:"empty"`
}

// DefaultFieldLimit is how many fields the panel shows before collapsing.
const DefaultFieldLimit = 6

// FieldList builds the panel for fields. A limit of zero or less shows all.
func FieldList(fields FieldSet, limit int) FieldListView {
	if len(fields) == 0 {
		return FieldListView{Items: []FieldItem{}, Empty: true}
	}
	shown := fields
	if limit > 0 && len(fields) > limit {
		shown = fields[:limit]
	}
	v := FieldListView{
		Items:  make([]FieldItem, 0, len(shown)),
		Hidden: len(fields) - len(shown),
	}
	for _, f := range shown {
		v.Items = append(v.Items, FieldItem{Name: f, Label: Label(f), Required: IsRequired(f)})
	}
	return v
}
