package cart

// deliveryFeeOverrides pins the fee for specific university ids regardless of
// the fee stored on the university row.
var deliveryFeeOverrides = map[uint]float64{
	9:  0,
	10: 2,
	11: 1,
}

// DeliveryFee returns the fee charged for delivering to a university
func DeliveryFee(universityID uint, configuredFee float64) float64 {
	if fee, ok := deliveryFeeOverrides[universityID]; ok {
		return fee
	}
	return configuredFee
}
