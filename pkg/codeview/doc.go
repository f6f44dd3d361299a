// Package codeview extracts a single code payload from a set of result tables.
//
// The pipeline has four stages:
//
//	Select          -> pick the first table whose metadata flags it as code
//	Extract         -> decode the first value of that table's first column
//	ResolveLanguage -> read the language hint, or fall back to a default
//	Prepare         -> combine the above into a RenderState
//
// Every stage is a pure function of its input. Non-fatal anomalies are
// reported through the Options logger and never change the outcome.
package codeview
