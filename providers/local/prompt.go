package local

import (
	"fmt"

	aiprovider "github.com/hexnote/hexnote-ai-go"
)

// stopSequences halt generation as soon as any of them appears in the
// accumulated decoded text. Covers role-turn markers the instruct templates
// use, llama end-of-turn tags, and runaway blank lines.
var stopSequences = []string{
	"Kysymys:",
	"Käyttäjä:",
	"Expected Output:",
	"User Request:",
	"Instruction:",
	"Vastaus:",
	"<|eot_id|>",
	"<|end_of_text|>",
	"\n\n\n",
}

// formatPrompt builds the instruction-formatted prompt for a local provider.
// Each model family has its own template convention.
func formatPrompt(provider aiprovider.ProviderID, prompt, context string) string {
	switch provider {
	case aiprovider.ProviderPoro2:
		// Llama 3.1 Instruct format. The model acts as a Finnish markdown
		// text editor, not a chatbot.
		return fmt.Sprintf(
			"<|start_header_id|>system<|end_header_id|>\n\n"+
				"Olet muistiolapun tekstieditori. Päivitä lapun sisältö käyttäjän pyynnön mukaan. \n"+
				"SÄÄNNÖT:\n"+
				"1. Kirjoita AINA suomeksi.\n"+
				"2. Käytä Markdown-muotoilua (otsikot, listat, lihavointi jne.).\n"+
				"3. Tulosta VAIN päivitetty muistiolapun sisältö.\n"+
				"4. Älä kirjoita mitään muuta (ei selityksiä, ei tervehdyksiä).<|eot_id|>"+
				"<|start_header_id|>user<|end_header_id|>\n\n"+
				"Nykyinen sisältö:\n%s\n\nKäyttäjän pyyntö: %s<|eot_id|>"+
				"<|start_header_id|>assistant<|end_header_id|>\n\n",
			context, prompt,
		)

	case aiprovider.ProviderFinChat:
		// Simpler question/answer format for the summarization model, which
		// tends to echo heavier templates back.
		if context == "" {
			return fmt.Sprintf("Kysymys: %s\n\nVastaus: ", prompt)
		}
		return fmt.Sprintf("Konteksti: %s\n\nKysymys: %s\n\nVastaus: ", context, prompt)

	default:
		return fmt.Sprintf("Context: %s\n\nUser: %s\n\nAssistant:", context, prompt)
	}
}
