package translate

import "fmt"

// systemPrompt instructs the model to return only the translated text so the
// response can be laid out directly onto the page.
func systemPrompt(sourceLang, targetLang string) string {
	return fmt.Sprintf(
		"You are a professional %s to %s translator. Translate the user's text faithfully. "+
			"Preserve paragraph breaks (blank lines) from the input. "+
			"The text comes from OCR of a scanned page and may contain recognition noise; "+
			"translate what is legible and skip fragments that are clearly garbage. "+
			"Return ONLY the translated text with no commentary, notes or markup.",
		sourceLang, targetLang)
}

func userPrompt(req Request) string {
	return fmt.Sprintf("Translate the following page text from %s to %s:\n\n%s",
		req.SourceLang, req.TargetLang, req.Text)
}
