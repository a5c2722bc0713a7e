// Package scraper provides HTTP fetching and HTML parsing for French chess tournaments.
//
// The listing page on echecsfrance.com links every upcoming tournament to its
// federation detail page (FicheTournoi.aspx?Ref=<id>). The scraper extracts those
// references from the raw listing, then fetches each detail page concurrently
// with a fixed ceiling on in-flight requests and reads the labelled fields out
// of the page.
//
// Failures are never returned to the caller from the scrape path. A listing that
// cannot be fetched yields no references; a detail page that cannot be fetched
// yields a Tournament whose fields are all Failed, while its URL is still the
// canonical one.
package scraper
