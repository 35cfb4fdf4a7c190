package snippet

import "errors"

// Snippet is a reusable block of template text inserted at the cursor.
type Snippet struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	BuiltIn bool   `json:"builtIn,omitempty"`
}

// Library is the persisted user state: custom snippets and the ids most
// recently inserted.
type Library struct {
	Snippets     []Snippet `json:"snippets"`
	RecentlyUsed []string  `json:"recentlyUsed"` // MRU order, max 10 IDs
}

var (
	ErrNotFound = errors.New("snippet not found")
	ErrReserved = errors.New("snippet id is reserved by a built-in snippet")
)

var builtIns = []Snippet{
	{ID: "header", Title: "En-tête", Content: `

{{ville}}, le {{date}}

{{nom_entreprise}}
{{adresse_entreprise}}
{{telephone}} - {{email}}

`},
	{ID: "article", Title: "Article", Content: `

ARTICLE {{numero_article}} - {{titre_article}}
{{contenu_article}}

`},
	{ID: "signature", Title: "Signatures", Content: `

Fait à {{lieu_signature}}, le {{date_signature}}

Signature de l'employeur          Signature du salarié
_____________________            _____________________

`},
	{ID: "date", Title: "Lieu et date", Content: `{{ville}}, le {{date}}

`},
	{ID: "table", Title: "Tableau de prix", Content: `

| Désignation | Quantité | Prix unitaire | Total |
|-------------|----------|---------------|-------|
| {{produit_1}} | {{qte_1}} | {{prix_1}} € | {{total_1}} € |
| {{produit_2}} | {{qte_2}} | {{prix_2}} € | {{total_2}} € |

**TOTAL:** {{montant_total}} €

`},
	{ID: "conditions", Title: "Conditions générales", Content: `

CONDITIONS GÉNÉRALES:
- {{condition_1}}
- {{condition_2}}
- {{condition_3}}

`},
}

func isBuiltIn(id string) bool {
	for _, b := range builtIns {
		if b.ID == id {
			return true
		}
	}
	return false
}
