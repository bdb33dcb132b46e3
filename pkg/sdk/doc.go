// Package sdk is a typed Go client for "cadence mcp".
//
// Plans go in as planning.Plan values and results come back as the same
// domain types the server computes with, so a caller can diff, schedule and
// chat without touching MCP content items. Transport failures are retried;
// tool errors are returned as *ToolError.
//
//	transport, _ := client.NewStdioTransport("cadence", "mcp")
//	c := sdk.NewClient(transport, sdk.WithTimeout(time.Minute))
//	defer c.Close()
//
//	if _, err := c.Initialize(ctx); err != nil { ... }
//	if err := c.Compatible(ctx); err != nil { ... }
//	res, _ := c.Diff(ctx, &previous, current, sdk.MatchWords)
//	fmt.Println(res.Narrative)
package sdk
