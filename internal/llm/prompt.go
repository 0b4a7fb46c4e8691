package llm

import "strings"

// BuildBulletsPrompt composes the instruction for ATS-optimized bullet
// points, embedding the keyword list, resume and job description.
func BuildBulletsPrompt(resumeText, jobDescription string, keywords []string) string {
	var b strings.Builder
	b.WriteString("You are an expert resume writer. Generate exactly 5 ATS-optimized resume bullet points based on the provided resume and job description. ")
	b.WriteString("Each bullet point should:\n")
	b.WriteString("- Start with a strong action verb\n")
	b.WriteString("- Include quantifiable achievements when possible\n")
	b.WriteString("- Incorporate these keywords naturally: " + strings.Join(keywords, ", ") + "\n")
	b.WriteString("- Be concise and impactful (1-2 lines each)\n\n")
	b.WriteString("Resume:\n" + resumeText + "\n\n")
	b.WriteString("Job Description:\n" + jobDescription + "\n\n")
	b.WriteString("Return ONLY the 5 bullet points, one per line, each starting with a hyphen (-).")
	return b.String()
}

// BuildCoverLetterPrompt composes the instruction for a tailored cover letter.
func BuildCoverLetterPrompt(resumeText, jobDescription string, keywords []string) string {
	var b strings.Builder
	b.WriteString("You are an expert cover letter writer. Generate a professional, concise cover letter (3-4 paragraphs) for this job application. ")
	b.WriteString("The cover letter should:\n")
	b.WriteString("- Demonstrate enthusiasm for the role\n")
	b.WriteString("- Highlight relevant experience from the resume\n")
	b.WriteString("- Naturally incorporate these keywords: " + strings.Join(keywords, ", ") + "\n")
	b.WriteString("- Be professional yet personable\n\n")
	b.WriteString("Resume:\n" + resumeText + "\n\n")
	b.WriteString("Job Description:\n" + jobDescription + "\n\n")
	b.WriteString("Return ONLY the cover letter text, no additional commentary.")
	return b.String()
}
