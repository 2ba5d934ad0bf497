package search_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"contactuse/internal/core/search"
)

var _ = Describe("BuildTask", func() {
	It("labels organization and humanizes requested fields", func() {
		task := search.BuildTask(search.SearchRequest{
			Keywords:     "Jane Doe",
			Organization: ptr("Acme"),
			FieldsToFind: []string{"email_address"},
		})

		Expect(task).To(ContainSubstring("Organization: Acme"))
		Expect(task).To(ContainSubstring("- Email Address"))
	})

	It("joins every part with a single space in a fixed order", func() {
		task := search.BuildTask(search.SearchRequest{
			Keywords:     "Jane Doe",
			Organization: ptr("Acme"),
			Location:     ptr("Berlin"),
			Role:         ptr("CTO"),
			FieldsToFind: []string{"email", "github_profile_url"},
		})

		Expect(task).To(Equal(
			"Find this contact info by any means necessary, take as long as you need and don't give up." +
				" \nSearch keywords: Jane Doe" +
				" Organization: Acme" +
				" Location: Berlin" +
				" Role/Job Title: CTO" +
				" \nFind the following information:" +
				" - Email" +
				" - Github Profile Url" +
				" \nReturn the results in a structured format with the field names exactly as requested.",
		))
	})

	It("omits optional lines that are missing or empty", func() {
		task := search.BuildTask(search.SearchRequest{Keywords: "Jane Doe", Location: ptr("")})

		Expect(task).NotTo(ContainSubstring("Organization:"))
		Expect(task).NotTo(ContainSubstring("Location:"))
		Expect(task).NotTo(ContainSubstring("Role/Job Title:"))
		Expect(task).To(HaveSuffix("\nFind the following information: \nReturn the results in a structured format with the field names exactly as requested."))
	})
})

var _ = DescribeTable("HumanizeField",
	func(in, want string) {
		Expect(search.HumanizeField(in)).To(Equal(want))
	},
	Entry("snake case", "company_phone_number", "Company Phone Number"),
	Entry("single word", "email", "Email"),
	Entry("upper case input", "CV_URL", "Cv Url"),
	Entry("digits start a new word", "web3wallet", "Web3Wallet"),
	Entry("empty", "", ""),
)

var _ = Describe("ParseContact", func() {
	It("extracts the email and leaves everything else unset", func() {
		res := search.ParseContact("Found it: jane@acme.com is her email")

		Expect(res).NotTo(BeNil())
		Expect(res.Email).To(HaveValue(Equal("jane@acme.com")))
		Expect(*res).To(Equal(search.ContactResult{Email: ptr("jane@acme.com")}))
	})

	It("takes the first address when several appear", func() {
		res := search.ParseContact("try j.doe@acme.co.uk or jane@example.org")

		Expect(res.Email).To(HaveValue(Equal("j.doe@acme.co.uk")))
	})

	It("keeps non-ASCII letters in the address", func() {
		res := search.ParseContact("Kontakt: jürgen@müller.de bitte")

		Expect(res.Email).To(HaveValue(Equal("jürgen@müller.de")))
	})

	It("returns an empty result when no address is present", func() {
		res := search.ParseContact("Jane Doe, CTO at Acme, no public email")

		Expect(res).NotTo(BeNil())
		Expect(*res).To(BeZero())
	})
})
