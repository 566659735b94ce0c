// Package scraper fetches keyword search results from the judgment search
// engine and turns result links into judgment records.
//
// Pages are obtained through a Renderer: BrowserRenderer drives headless
// Chromium through Playwright and waits for network activity to settle, which
// is needed when results are rendered client-side; HTTPRenderer issues a plain
// GET for server-rendered pages. Either way the HTML is walked with goquery,
// anchors are filtered down to document links, and links are canonicalized
// from their numeric document id.
package scraper
