// Package docs Network Coverage API.
//
// Batch lookup of French mobile network coverage. The service geocodes
// postal addresses through the Base Adresse Nationale, finds transmitter
// sites around each resolved point and reports per-operator 2G/3G/4G
// availability for Orange, SFR, Bouygues Telecom and Free Mobile.
//
// Endpoints:
// - Batch coverage lookup for a list of addresses
// - Statistics over the loaded site inventory
// - Health and Prometheus metrics
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
