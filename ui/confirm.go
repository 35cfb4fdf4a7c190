package ui

// Confirm describes a modal asking the user to confirm an action.
type Confirm struct {
	Title        string `json:"title"`
	Message      string `json:"message"`
	ConfirmLabel string `json:"confirmLabel"`
	CancelLabel  string `json:"cancelLabel"`
}

// NewConfirm returns a dialog with the standard button labels.
func NewConfirm(title, message string) Confirm {
	return Confirm{Title: title, Message: message, ConfirmLabel: "Confirmer", CancelLabel: "Annuler"}
}

// DefaultDeleteMessage is asked before deleting when the caller gives none.
const DefaultDeleteMessage = "Êtes-vous sûr de vouloir supprimer cet élément ?"

// DeleteConfirm returns the dialog shown before a deletion.
func DeleteConfirm(message string) Confirm {
	if message == "" {
		message = DefaultDeleteMessage
	}
	return NewConfirm("Confirmer la suppression", message)
}

// Messages shown by the shared page handlers.
const (
	MsgUnexpected = "Une erreur inattendue s'est produite"
	MsgOnline     = "Connexion rétablie"
	MsgOffline    = "Connexion perdue"
	MsgCopyFailed = "Impossible de copier le texte"
	MsgCopied     = "Copié dans le presse-papiers !"
)
