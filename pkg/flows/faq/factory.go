package faq

import "github.com/printyhq/printy-assist/pkg/flow"

// AboutFactory creates the assistant introduction flow.
type AboutFactory struct{}

func NewAboutFactory() *AboutFactory {
	return &AboutFactory{}
}

func (f *AboutFactory) Create() flow.Flow {
	return NewAbout()
}

func (f *AboutFactory) ID() string {
	return "about"
}

func (f *AboutFactory) Name() string {
	return "About"
}

func (f *AboutFactory) Description() string {
	return "Introduces the assistant and what it can do."
}

// FAQFactory creates the dashboard FAQ flow.
type FAQFactory struct{}

func NewFAQFactory() *FAQFactory {
	return &FAQFactory{}
}

func (f *FAQFactory) Create() flow.Flow {
	return NewFAQ()
}

func (f *FAQFactory) ID() string {
	return "faq"
}

func (f *FAQFactory) Name() string {
	return "FAQ"
}

func (f *FAQFactory) Description() string {
	return "Answers the questions admins ask most about the dashboard."
}
