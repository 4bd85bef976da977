package content

// Embedded derivation rules. Operators can override any of these by dropping
// a file with the same name (plus .tengo) into the rules directory.
var embeddedRules = map[string]string{
	// years_active computes the company age from the founding year.
	"years_active": `
years := input.current_year - input.founded
if years < 0 {
	years = 0
}
output = years
`,

	// attribution formats a testimonial byline from author, role, and company.
	"attribution": `
text := import("text")
parts := [input.author]
if input.role != "" {
	parts = append(parts, input.role)
}
if input.company != "" {
	parts = append(parts, input.company)
}
output = text.join(parts, ", ")
`,
}
