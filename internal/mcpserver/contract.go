package mcpserver

// DataFormatContract describes the JSON documents empchart reads, writes and
// returns, for LLM consumers of the MCP tools.
const DataFormatContract = `# empchart Data Formats

## Bundled dataset (employmentdata.json, read-only)

` + "```" + `json
{
  "Names":  ["year", "month", "unemployment_rate", "participation_rate"],
  "Values": [[2020, 11, 6.7, 61.5], [2020, 12, 6.7, 61.5]]
}
` + "```" + `

- Every row has exactly one value per name, in the same order.
- "year" and "month" build the date axis: one date per row, day 1.

## Bookmark (chartstate.json, app data)

` + "```" + `json
{"xmin": 0, "xmax": 11, "ymin": 3, "ymax": 15, "Selections": ["unemployment_rate"]}
` + "```" + `

- xmin/xmax are row positions on the date axis; ymin/ymax are data values.
- Bounds are stored as given; a range with max <= min means "full extent".
- Selections is the list of charted column names; null or omitted means none.

## Chart data (get_chart_data result)

` + "```" + `json
{
  "labels":   ["2020-11-01", "2020-12-01"],
  "datasets": [{"label": "unemployment_rate", "data": [6.7, 6.7]}]
}
` + "```" + `

- One label per row; one dataset per requested column, in request order.
- An unknown column yields a dataset with an empty data list, not an error.
`
