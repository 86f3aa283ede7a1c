package emotion

// Label identifies an emotional state reported by the classifier.
// The vocabulary is open: values outside Known are legal.
type Label string

const (
	Happy     Label = "Happy"
	Sad       Label = "Sad"
	Angry     Label = "Angry"
	Calm      Label = "Calm"
	Fearful   Label = "Fearful"
	Surprised Label = "Surprised"
	Disgust   Label = "Disgust"
)

var known = []Label{Happy, Sad, Angry, Calm, Fearful, Surprised, Disgust}

// Known returns the labels the classifier is trained on, in display order.
func Known() []Label {
	return append([]Label(nil), known...)
}

// IsKnown reports whether l is one of the seven trained labels.
func (l Label) IsKnown() bool {
	for _, k := range known {
		if k == l {
			return true
		}
	}
	return false
}
