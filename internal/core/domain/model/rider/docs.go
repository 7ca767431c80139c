// Package rider models what the admin sees of the rider pool:
//
//   - Response: one rider's answer to a job offer for one shipment
//   - LivePosition: a rider's last known position and availability
//
// Key business rules:
//   - A Response is identified by the (shipment, rider) pair
//   - For one shipment at most one Response may be accepted; once one is, the rest are frozen
//   - A LivePosition without an update time came from the push channel and is newer than anything held
package rider
