// Package campaign owns the canonical email content for the campaign: the
// default template offered to residents, its personalization placeholders,
// the customization check used when recording metrics, and the mailto link
// composer that opens the resident's own mail client pre-filled.
package campaign

import (
	"crypto/sha256"
	"net/url"
	"regexp"
	"strings"
)

// Placeholder markers embedded in the canonical template. The client replaces
// these before the user ever edits the text; the server applies the same
// substitutions so both sides agree on what "unedited" means.
const (
	PlaceholderName        = "[Your Full Name will be automatically added here by the app]"
	PlaceholderPostcode    = "[Your Postcode will be automatically added here by the app]"
	PlaceholderEmail       = "[Your Email Address will be automatically added here by the app]"
	placeholderDescription = "[Optional: Your brief self-description or specific observation will be inserted here if provided]"
)

// DefaultTemplate is the canonical pre-written message offered to residents
// before editing.
const DefaultTemplate = `Dear Ms. Kumaran,

I am writing to you today as a concerned resident of E20 within your Stratford and Bow constituency to express my urgent alarm regarding the escalating crisis of phone thefts in our local area.

For those of us living in E20, the sight of thieves on e-bikes brazenly snatching phones has become an unacceptable daily reality. This isn't an isolated issue; it's a persistent threat that significantly impacts our sense of safety and security. These incidents are a constant topic of discussion in our local WhatsApp groups and have been repeatedly raised in our local police forum meetings, yet the problem persists and, anecdotally, appears to be worsening.

The current situation is untenable and requires immediate and robust intervention. We, your constituents in E20, urge you to take the following specific actions:

1.  Raise this critical issue in Parliament to highlight the severity of phone crime in our community and across London.
2.  Address this matter directly with the Commissioner of the Metropolitan Police, demanding a strategic and effective response to combat these thefts in E20.
3.  Convey our grave concerns to the Home Secretary, emphasizing the need for national support and resources to tackle this type of crime.
4.  Engage with the Mayor of London to ensure a coordinated approach and adequate resources are allocated to our area to address this problem.
5.  Champion the call for the reinstatement of a dedicated local police post or presence for the E20 area, which we believe would act as a significant deterrent.
6.  Advocate for significantly improved CCTV coverage in known hotspots within E20 to aid in the prevention and prosecution of these crimes.
7.  Support and help facilitate the establishment of a local awareness campaign to educate residents on preventative measures and reporting mechanisms.

` + placeholderDescription + `

We believe that with your strong representation, we can begin to reclaim our streets and restore a sense of security for all residents in E20. We look forward to hearing about the actions you will take on our behalf.

Sincerely,

` + PlaceholderName + `
` + PlaceholderPostcode + `
` + PlaceholderEmail

// Personalize renders the canonical template for a specific resident: the
// optional-description marker is removed and the name/postcode/email
// placeholders are substituted. The result is exactly what a resident who
// submits without editing would send.
func Personalize(fullName, postcode, email string) string {
	s := DefaultTemplate

	// The description marker may carry zero, one, or two trailing newlines
	// depending on where it sits; try the greediest form first.
	s = strings.Replace(s, placeholderDescription+"\n\n", "", 1)
	s = strings.Replace(s, placeholderDescription+"\n", "", 1)
	s = strings.Replace(s, placeholderDescription, "", 1)

	s = strings.Replace(s, PlaceholderName, fullName, 1)
	s = strings.Replace(s, PlaceholderPostcode, postcode, 1)
	s = strings.Replace(s, PlaceholderEmail, email, 1)
	return s
}

// wsRE collapses whitespace runs for shape-insensitive comparison.
var wsRE = regexp.MustCompile(`\s+`)

// contentDigest hashes message content after normalizing whitespace, so that
// reflowed line endings or trailing blanks do not count as edits.
func contentDigest(s string) [sha256.Size]byte {
	normalized := wsRE.ReplaceAllString(strings.TrimSpace(s), " ")
	return sha256.Sum256([]byte(normalized))
}

// IsCustomized reports whether the submitted content deviates from the
// canonical template personalized for this resident. The comparison is a
// digest over whitespace-normalized text; any substantive edit flips it.
func IsCustomized(content, fullName, postcode, email string) bool {
	return contentDigest(content) != contentDigest(Personalize(fullName, postcode, email))
}

// Composer builds pre-filled email links and envelopes for the campaign.
type Composer struct {
	Recipient string   // To: address, fixed per campaign
	CC        []string // campaign CC list (the sender is always CC'd as well)
	Subject   string
}

// CCFor returns the full CC list for a given sender: the sender's own address
// first (so they keep a copy), then the campaign CC list.
func (c Composer) CCFor(senderEmail string) []string {
	out := make([]string, 0, len(c.CC)+1)
	if senderEmail != "" {
		out = append(out, senderEmail)
	}
	out = append(out, c.CC...)
	return out
}

// MailtoLink composes a mailto: URL that opens the resident's mail client
// with recipient, CC, subject, and body pre-filled.
func (c Composer) MailtoLink(senderEmail, body string) string {
	var b strings.Builder
	b.WriteString("mailto:")
	b.WriteString(c.Recipient)
	b.WriteString("?subject=")
	b.WriteString(escapeMailto(c.Subject))
	b.WriteString("&body=")
	b.WriteString(escapeMailto(body))
	if cc := c.CCFor(senderEmail); len(cc) > 0 {
		b.WriteString("&cc=")
		b.WriteString(escapeMailto(strings.Join(cc, ",")))
	}
	return b.String()
}

// escapeMailto percent-encodes a mailto component. QueryEscape uses '+' for
// spaces, which mail clients do not decode; mailto requires %20.
func escapeMailto(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
