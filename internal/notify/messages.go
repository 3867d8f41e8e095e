package notify

import (
	"fmt"

	"centime/internal/models"
)

// BudgetWarningEmail builds the message sent when a project first
// drops below its warning threshold.
func BudgetWarningEmail(user *models.User, project *models.Project) (subject, htmlBody string) {
	subject = fmt.Sprintf("Budget warning: %s", project.Name)
	htmlBody = fmt.Sprintf(
		"<p>Hello %s,</p>"+
			"<p>Your project %q is running low on budget.</p>"+
			"<p>Remaining: %s of %s</p>",
		greetingName(user), project.Name,
		formatCents(project.Budget.Remaining), formatCents(project.Budget.Total))
	return subject, htmlBody
}

// OutOfBudgetEmail builds the message sent when a project's envelope
// is exhausted.
func OutOfBudgetEmail(user *models.User, project *models.Project) (subject, htmlBody string) {
	subject = fmt.Sprintf("Budget exhausted: %s", project.Name)
	htmlBody = fmt.Sprintf(
		"<p>Hello %s,</p>"+
			"<p>Your project %q has exhausted its budget.</p>"+
			"<p>Total budget: %s<br>Spent: %s</p>",
		greetingName(user), project.Name,
		formatCents(project.Budget.Total), formatCents(project.Budget.Spent))
	return subject, htmlBody
}

func greetingName(user *models.User) string {
	if user.FirstName != "" {
		return user.FirstName
	}
	return user.Email
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}
