// Package passes provides the built-in Adobe Flavored Markdown passes.
//
// # Block passes
//
// Block passes run on the block token list before inline parsing. They
// match dialect markers in blockquotes, paragraphs and headings and
// rewrite the surrounding tokens:
//
//   - shadebox: [!BEGINSHADEBOX "title"] ... [!ENDSHADEBOX] shaded boxes
//
//   - tabs: [!BEGINTABS], [!TAB label], [!ENDTABS] tab groups
//
//   - admonitions: [!NOTE], [!TIP], ... callouts and [!VIDEO](url)
//
//   - collapsible: +++ Title ... +++ details sections
//
//   - table-styles: {style ...} hints are dropped
//
//   - dnl, uicontrol: [!DNL text] and [!UICONTROL text] markers are unwrapped
//
//   - badges, meta-badges: [!BADGE label]{...} and front matter badges
//
//   - header-anchors: # Heading {#id}
//
//   - link-targets: [text](url){target=_blank}
//
//   - single-newline: lone newlines become <br/> (opt-in)
//
// # Inline passes
//
// Inline passes run once every inline token has children:
//
//   - images: ![alt](src){align=right width=200}
//
// Passes fail open: syntax they cannot interpret is left as it is.
package passes
