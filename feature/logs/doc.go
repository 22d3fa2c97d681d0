// Package logs turns raw transaction log text into typed events.
//
// A log statement has the shape
//
//	2024-03-01 10:15:00 | ORDER | 3f2a9c1e | sell WINE-OPU-001 12
//
// i.e. timestamp, message type, trace id and a type-specific detail separated
// by " | ". Lines starting with a space or tab continue the previous
// statement's detail. Any other line that does not fit the grammar is dropped
// and counted; parsing never stops on a bad line.
//
// Parse and ParseFiles are lazy: statements are yielded as soon as the next
// header (or the end of input) closes them. Extract then splits the stream into
// OrderEvents and TransactionEvents.
package logs
