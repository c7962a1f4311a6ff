package companies

type CreateCompanyInput struct {
	Name string
}

type UpdateCompanyInput struct {
	Name string
}
