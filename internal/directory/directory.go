package directory

import "strings"

// Employee is one entry in the static org directory. Team names match the
// team names used in the tracker.
type Employee struct {
	Name   string   `json:"name"`
	Email  string   `json:"email,omitempty"`
	Role   string   `json:"role"`
	Team   string   `json:"team"`
	Skills []string `json:"skills"`
}

var Teams = []string{
	"Executive",
	"Marketing",
	"Customer Experience (CX)",
	"Sales",
	"Product/Tech",
	"HR",
}

var Employees = []Employee{
	{Name: "Stockton", Role: "Founder & CEO, CMO", Team: "Executive", Skills: []string{"marketing", "ads", "content", "leadership"}},
	{Name: "Canyon", Role: "Co-founder, Product & Tech", Team: "Product/Tech", Skills: []string{"ai", "automation", "backend", "stripe", "checkout", "data"}},
	{Name: "Jack", Email: "jack@coursecreator360.com", Role: "VP of Sales", Team: "Sales", Skills: []string{"sales", "mrr", "demos", "trials"}},
	{Name: "Nebuchadnezzar", Role: "VP of Customer Experience", Team: "Customer Experience (CX)", Skills: []string{"onboarding", "support", "success", "churn", "leadership"}},
	{Name: "Ken", Role: "Customer Support", Team: "Customer Experience (CX)", Skills: []string{"support", "onboarding", "moderation"}},
	{Name: "Hamza", Email: "hamza@coursecreator360.com", Role: "Cancellation & Churn Specialist", Team: "Customer Experience (CX)", Skills: []string{"cancellation", "save", "churn", "negotiation"}},
	{Name: "Tony", Role: "Head of Onboarding", Team: "Customer Experience (CX)", Skills: []string{"onboarding", "dns", "setup"}},
	{Name: "Juan", Role: "Onboarding Rep", Team: "Customer Experience (CX)", Skills: []string{"onboarding"}},
	{Name: "Ray", Role: "Support Triage & Welcome Calls", Team: "Customer Experience (CX)", Skills: []string{"support", "welcome call", "triage"}},
	{Name: "Victor", Role: "Onboarding Rep", Team: "Customer Experience (CX)", Skills: []string{"onboarding"}},
	{Name: "James", Role: "Head of Project Management", Team: "Customer Experience (CX)", Skills: []string{"projects", "quality", "dfy", "contractors"}},
	{Name: "Phil", Role: "Customer Communications", Team: "Customer Experience (CX)", Skills: []string{"client communication", "support", "projects"}},
	{Name: "Christian", Role: "Closer", Team: "Sales", Skills: []string{"demos", "closing"}},
	{Name: "Kyell", Role: "Closer", Team: "Sales", Skills: []string{"demos", "closing"}},
	{Name: "Sam", Role: "Setter", Team: "Sales", Skills: []string{"outreach", "calls", "trial"}},
	{Name: "John (Media Buyer)", Role: "Media Buyer", Team: "Marketing", Skills: []string{"facebook ads", "youtube ads", "reports", "ad angles"}},
	{Name: "John (Setter)", Role: "Setter", Team: "Sales", Skills: []string{"outreach", "calls", "trial"}},
	{Name: "Edwin", Role: "Content Marketing Manager", Team: "Marketing", Skills: []string{"content", "copy", "email", "thumbnails", "social"}},
}

// FindByName returns the first employee whose name starts with the given
// prefix, case-insensitive. Mirrors the resolver's assignee matching.
func FindByName(name string) (Employee, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return Employee{}, false
	}
	for _, e := range Employees {
		if strings.HasPrefix(strings.ToLower(e.Name), lower) {
			return e, true
		}
	}
	return Employee{}, false
}
