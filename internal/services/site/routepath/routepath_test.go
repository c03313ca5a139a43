package routepath

import "testing"

func TestPortfolioPaths(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{PortfolioGrid("all", false), "/portfolio"},
		{PortfolioGrid("", true), "/portfolio?more=1"},
		{PortfolioGrid("office", false), "/portfolio?category=office"},
		{PortfolioView(3, "office", true), "/portfolio/view/3?category=office&more=1"},
		{PortfolioView(0, "all", false), "/portfolio/view/0"},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Fatalf("path = %q, want %q", tc.got, tc.want)
		}
	}
}

func TestProjectPathsEscapeIDs(t *testing.T) {
	if got := Project("a b"); got != "/projects/a%20b" {
		t.Fatalf("Project() = %q", got)
	}
	if got := ProjectImage("7", 2); got != "/projects/7/images/2" {
		t.Fatalf("ProjectImage() = %q", got)
	}
}

func TestAdminPaths(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{AdminProjectsFiltered("all", " "), "/admin/projects"},
		{AdminProjectsFiltered("office", "desk"), "/admin/projects?category=office&q=desk"},
		{AdminProjectEditPath("4"), "/admin/projects/4/edit"},
		{AdminProjectDeletePath("4"), "/admin/projects/4/delete"},
		{AdminProjectPreviewPath("4", 1), "/admin/projects/4/images/1"},
		{AdminCategoryEditPath("2"), "/admin/categories/2/edit"},
		{AdminTestimonialDeletePath("9"), "/admin/testimonials/9/delete"},
		{AdminPortfolioEditPath("5"), "/admin/portfolio/5/edit"},
		{AdminPortfolioFiltered("residential"), "/admin/portfolio?category=residential"},
		{AdminPortfolioFiltered("all"), "/admin/portfolio"},
		{AdminLoginNext(" "), "/admin/login"},
		{AdminLoginNext("/admin/projects"), "/admin/login?next=%2Fadmin%2Fprojects"},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Fatalf("path = %q, want %q", tc.got, tc.want)
		}
	}
}
