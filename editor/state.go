package editor

import (
	"strings"
	"unicode/utf8"
)

// SampleContent seeds an empty editor so first-time users see placeholders
// at work.
const SampleContent = `CONTRAT DE TRAVAIL À DURÉE INDÉTERMINÉE

Entre l'entreprise {{nom_entreprise}}, située à {{adresse_entreprise}},
représentée par {{nom_representant}}, en qualité de {{fonction_representant}},

Et {{prenom_employe}} {{nom_employe}}, né(e) le {{date_naissance}} à {{lieu_naissance}},
demeurant {{adresse_employe}}, ci-après dénommé(e) « le salarié ».

ARTICLE 1 - ENGAGEMENT
L'entreprise engage le salarié en qualité de {{poste}} à compter du {{date_debut}}.

ARTICLE 2 - RÉMUNÉRATION
Le salaire mensuel brut s'élève à {{salaire}} euros, soit {{salaire_net}} euros nets.

ARTICLE 3 - PÉRIODE D'ESSAI
Une période d'essai de {{duree_essai}} est prévue.

Fait à {{lieu_signature}}, le {{date_signature}}

Signature de l'employeur          Signature du salarié
_____________________            _____________________`

// EditorStep is the position of the editor in the creation wizard.
const EditorStep = 2

// State is the form being edited. Fields always reflects Content; use
// SetContent rather than assigning Content directly.
type State struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Category    string   `json:"category"`
	IsPublic    bool     `json:"isPublic"`
	Step        int      `json:"step"`
	Fields      FieldSet `json:"fields"`
}

// NewState returns a state positioned on the editor step.
func NewState() *State {
	return &State{Step: EditorStep, Fields: FieldSet{}}
}

// SetContent replaces the text and rescans it.
func (s *State) SetContent(text string) {
	s.Content = text
	s.Fields = Scan(text)
}

// Counters are the character and field counts shown under the editor.
type Counters struct {
	Chars  int `json:"chars"`
	Fields int `json:"fields"`
}

// StepState is the CSS state of one step of the wizard indicator.
type StepState string

const (
	StepPending   StepState = ""
	StepActive    StepState = "active"
	StepCompleted StepState = "completed"
)

// Steps returns the indicator state of total steps when current is active.
// Steps are numbered from 1.
func Steps(current, total int) []StepState {
	out := make([]StepState, total)
	for i := range out {
		switch n := i + 1; {
		case n < current:
			out[i] = StepCompleted
		case n == current:
			out[i] = StepActive
		}
	}
	return out
}

// View is everything the page redraws after the text changes.
type View struct {
	Fields   FieldListView `json:"fields"`
	Counters Counters      `json:"counters"`
	Preview  Preview       `json:"preview"`
	Steps    []StepState   `json:"steps"`
}

// WizardSteps is the number of steps in the creation wizard.
const WizardSteps = 3

// View renders the state. fieldLimit caps the detected fields panel.
func (s *State) View(fieldLimit int) View {
	return View{
		Fields: FieldList(s.Fields, fieldLimit),
		Counters: Counters{
			Chars:  utf8.RuneCountInString(s.Content),
			Fields: len(s.Fields),
		},
		Preview: RenderPreview(s.Content, s.Fields),
		Steps:   Steps(s.Step, WizardSteps),
	}
}

// NoFieldsPrompt asks for confirmation before saving a template without
// placeholders.
const NoFieldsPrompt = "Aucun champ dynamique détecté. Continuer quand même ?"

// CheckSave validates the state before it is submitted. A non-empty prompt
// means the user must confirm before the save goes ahead.
func (s *State) CheckSave() (prompt string, err error) {
	if strings.TrimSpace(s.Title) == "" {
		return "", &ValidationError{Field: "title", Message: "Veuillez entrer un titre pour le template"}
	}
	if strings.TrimSpace(s.Content) == "" {
		return "", &ValidationError{Field: "content", Message: "Veuillez entrer le contenu du template"}
	}
	if len(s.Fields) == 0 {
		return NoFieldsPrompt, nil
	}
	return "", nil
}
