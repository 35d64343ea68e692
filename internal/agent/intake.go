package agent

// IntakeField describes one answer a pending intake prompt expects.
// Drivers collect a value per field and resume with Input{Key: value}.
type IntakeField struct {
	// Key is the Input map key.
	Key string
	// Label is a short caption for the field.
	Label string
}

// FieldsForPrompt returns the fields a pending intake prompt expects, in
// collection order. Prompts without structured fields (the confirmation
// question) return nil.
func FieldsForPrompt(prompt string) []IntakeField {
	switch prompt {
	case personalQuestionsPrompt:
		return []IntakeField{
			{Key: "nome", Label: "Nome"},
			{Key: "idade", Label: "Idade"},
			{Key: "email", Label: "Email"},
		}
	case healthQuestionsPrompt:
		return []IntakeField{
			{Key: "ciclo_menstrual", Label: "Ciclo menstrual"},
			{Key: "sintomas_fisicos", Label: "Sintomas físicos"},
			{Key: "saude_emocional", Label: "Saúde emocional"},
			{Key: "habitos_historico", Label: "Hábitos e histórico"},
			{Key: "exames_tratamentos", Label: "Exames e tratamentos"},
		}
	}
	return nil
}

// IsConfirmationPrompt reports whether the pending prompt is the intake
// confirmation gate, which expects Input{"confirmation": bool}.
func IsConfirmationPrompt(prompt string) bool {
	return prompt == confirmationQuestion
}
