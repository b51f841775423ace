package location

// CallingCode is an entry of the phone country-code picker
type CallingCode struct {
	Code    string `json:"code"`
	Country string `json:"country"`
}

// CallingCodes lists the codes offered next to the phone field
var CallingCodes = []CallingCode{
	{Code: "+91", Country: "India"},
	{Code: "+1", Country: "USA"},
	{Code: "+1", Country: "Canada"},
	{Code: "+44", Country: "United Kingdom"},
	{Code: "+61", Country: "Australia"},
	{Code: "+49", Country: "Germany"},
}

// TermsOfService is shown before a customer accepts the terms
const TermsOfService = `Pizza Chain Customer Terms

1. You confirm the details you provide are accurate and belong to you.
2. We use your contact details to manage orders, deliveries and loyalty rewards.
3. Newsletter emails are only sent when you opt in and can be stopped at any time.
4. Feedback you leave may be reviewed by our staff to improve our service.
5. You may ask us to update or delete your profile at any time.`
