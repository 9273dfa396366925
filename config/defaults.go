package config

import "time"

// DefaultSystemPreamble steers the model towards terse, protocol-driven guidance for crews
// working inside an ambulance. The user's text is appended directly after it.
const DefaultSystemPreamble = "You are an expert emergency medical assistant built to support paramedics and EMTs inside ambulances. " +
	"You respond with clear, step-by-step medical guidance based on standard emergency protocols. " +
	"Be confident, precise, and calm. Prioritize immediate action and avoid unnecessary disclaimers. " +
	"Do not make assumptions without information. If you need clarification, say what you need.\n\n" +
	"EMT query: "

const (
	DefaultListenAddress = "0.0.0.0:8000"
	DefaultBackendURL    = "http://localhost:11434"
	DefaultGeneratePath  = "/api/generate"
	DefaultModel         = "llama3"
	DefaultTimeout       = 120 * time.Second
	DefaultWaitTimeout   = 75 * time.Second
)

// DefaultPresets are the canned queries offered to crews on the main screen.
var DefaultPresets = []string{
	"Chest pain + dizziness",
	"CPR steps for infant",
	"Drug interaction: Epi + beta blockers",
}
