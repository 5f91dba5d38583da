package usecase

import (
	"math"

	"github.com/shopspring/decimal"
)

const earthRadiusKm = 6371.0

var (
	baseFare  = decimal.NewFromInt(30)
	perKmFare = decimal.NewFromInt(12)
)

// haversineKm is the great-circle distance between two points.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// estimateFare returns the trip distance and its price, both rounded to 2 places.
func estimateFare(pickupLat, pickupLng, dropLat, dropLng float64) (distanceKm, fare decimal.Decimal) {
	distanceKm = decimal.NewFromFloat(haversineKm(pickupLat, pickupLng, dropLat, dropLng)).Round(2)
	fare = baseFare.Add(perKmFare.Mul(distanceKm)).Round(2)
	return distanceKm, fare
}
