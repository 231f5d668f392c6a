package enricher

const chunkSummaryPrompt = `
You are a senior software engineer. Summarize this git diff chunk in 1 short phrase (max 10 words).
Focus on WHAT changed, not HOW.

DIFF CHUNK:
%s
`

const fusionPrompt = `
You are a senior software engineer. Combine these change summaries into ONE concise, professional git commit message.
Rules:
- Max 50 characters
- Imperative mood ("Add feature", not "Added feature")
- No fluff, no emojis, no <thinking> tags

CHANGE SUMMARIES:
%s

FINAL COMMIT MESSAGE:
`
