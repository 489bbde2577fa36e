package store

import (
	"strconv"
	"strings"

	"github.com/tstelemetry/server/pkg/scs"
	"github.com/tstelemetry/server/pkg/telemetry"
)

// configSetter applies one configuration attribute. Configuration values are
// read leniently: a float attribute may arrive as float or double.
type configSetter func(f *frame, index uint32, v scs.Value)

func asFloat(v scs.Value) float64 {
	switch v.Kind {
	case scs.KindFloat:
		return finite(float64(v.Float))
	case scs.KindDouble:
		return finite(v.Double)
	}
	return 0
}

func asU32(v scs.Value) uint32 {
	switch v.Kind {
	case scs.KindU32:
		return v.U32
	case scs.KindS32:
		return uint32(max(v.S32, 0))
	}
	return 0
}

func asVec(v scs.Value) telemetry.Vec3 {
	switch v.Kind {
	case scs.KindFVector:
		return fvec3(v.FVector)
	case scs.KindDVector:
		return vec3(v.DVector)
	}
	return telemetry.Vec3{}
}

func cfgString(field func(*frame) *string) configSetter {
	return func(f *frame, _ uint32, v scs.Value) { *field(f) = v.String }
}

func cfgFloat(field func(*frame) *float64) configSetter {
	return func(f *frame, _ uint32, v scs.Value) { *field(f) = asFloat(v) }
}

func cfgU32(field func(*frame) *uint32) configSetter {
	return func(f *frame, _ uint32, v scs.Value) { *field(f) = asU32(v) }
}

func cfgBool(field func(*frame) *bool) configSetter {
	return func(f *frame, _ uint32, v scs.Value) { *field(f) = v.Bool }
}

func cfgVec(field func(*frame) *telemetry.Vec3) configSetter {
	return func(f *frame, _ uint32, v scs.Value) { *field(f) = asVec(v) }
}

func cfgWheel(wheels wheelsOf, set func(c *telemetry.WheelConfig, v scs.Value)) configSetter {
	return func(f *frame, i uint32, v scs.Value) {
		if i >= telemetry.MaxWheelCount {
			return
		}
		set(&wheels(f)[i].Config, v)
	}
}

func cfgWheelCount(count func(*frame) *uint32, wheels wheelsOf) configSetter {
	return func(f *frame, _ uint32, v scs.Value) {
		n := asU32(v)
		*count(f) = n
		telemetry.ZeroWheelsFrom(wheels(f), n)
	}
}

func wheelConfigSetters(wheels wheelsOf) map[string]configSetter {
	return map[string]configSetter{
		scs.AttrWheelPosition:  cfgWheel(wheels, func(c *telemetry.WheelConfig, v scs.Value) { c.Position = asVec(v) }),
		scs.AttrWheelSteerable: cfgWheel(wheels, func(c *telemetry.WheelConfig, v scs.Value) { c.IsSteerable = v.Bool }),
		scs.AttrWheelSimulated: cfgWheel(wheels, func(c *telemetry.WheelConfig, v scs.Value) { c.IsSimulated = v.Bool }),
		scs.AttrWheelRadius:    cfgWheel(wheels, func(c *telemetry.WheelConfig, v scs.Value) { c.Radius = asFloat(v) }),
		scs.AttrWheelPowered:   cfgWheel(wheels, func(c *telemetry.WheelConfig, v scs.Value) { c.IsPowered = v.Bool }),
		scs.AttrWheelLiftable:  cfgWheel(wheels, func(c *telemetry.WheelConfig, v scs.Value) { c.IsLiftable = v.Bool }),
	}
}

func truckConfigSetters() map[string]configSetter {
	c := func(f *frame) *telemetry.TruckConfig { return &f.Truck.Config }
	m := map[string]configSetter{
		scs.AttrBrandID:                 cfgString(func(f *frame) *string { return &c(f).BrandID }),
		scs.AttrBrand:                   cfgString(func(f *frame) *string { return &c(f).Brand }),
		scs.AttrID:                      cfgString(func(f *frame) *string { return &c(f).ID }),
		scs.AttrName:                    cfgString(func(f *frame) *string { return &c(f).Name }),
		scs.AttrFuelCapacity:            cfgFloat(func(f *frame) *float64 { return &c(f).FuelCapacity }),
		scs.AttrFuelWarningFactor:       cfgFloat(func(f *frame) *float64 { return &c(f).FuelWarningFactor }),
		scs.AttrAdblueCapacity:          cfgFloat(func(f *frame) *float64 { return &c(f).AdblueCapacity }),
		scs.AttrAdblueWarningFactor:     cfgFloat(func(f *frame) *float64 { return &c(f).AdblueWarningFactor }),
		scs.AttrAirPressureWarning:      cfgFloat(func(f *frame) *float64 { return &c(f).AirPressureWarning }),
		scs.AttrAirPressureEmergency:    cfgFloat(func(f *frame) *float64 { return &c(f).AirPressureEmergency }),
		scs.AttrOilPressureWarning:      cfgFloat(func(f *frame) *float64 { return &c(f).OilPressureWarning }),
		scs.AttrWaterTemperatureWarning: cfgFloat(func(f *frame) *float64 { return &c(f).WaterTemperatureWarning }),
		scs.AttrBatteryVoltageWarning:   cfgFloat(func(f *frame) *float64 { return &c(f).BatteryVoltageWarning }),
		scs.AttrRPMLimit:                cfgFloat(func(f *frame) *float64 { return &c(f).RPMLimit }),
		scs.AttrForwardGearCount:        cfgU32(func(f *frame) *uint32 { return &c(f).ForwardGearCount }),
		scs.AttrReverseGearCount:        cfgU32(func(f *frame) *uint32 { return &c(f).ReverseGearCount }),
		scs.AttrRetarderStepCount:       cfgU32(func(f *frame) *uint32 { return &c(f).RetarderStepCount }),
		scs.AttrDifferentialRatio:       cfgFloat(func(f *frame) *float64 { return &c(f).DifferentialRatio }),
		scs.AttrCabinPosition:           cfgVec(func(f *frame) *telemetry.Vec3 { return &c(f).CabinPosition }),
		scs.AttrHeadPosition:            cfgVec(func(f *frame) *telemetry.Vec3 { return &c(f).HeadPosition }),
		scs.AttrHookPosition:            cfgVec(func(f *frame) *telemetry.Vec3 { return &c(f).HookPosition }),
		scs.AttrLicensePlate:            cfgString(func(f *frame) *string { return &c(f).LicensePlate }),
		scs.AttrLicensePlateCountry:     cfgString(func(f *frame) *string { return &c(f).LicensePlateCountry }),
		scs.AttrLicensePlateCountryID:   cfgString(func(f *frame) *string { return &c(f).LicensePlateCountryID }),
		scs.AttrWheelCount:              cfgWheelCount(func(f *frame) *uint32 { return &c(f).WheelCount }, truckWheels),
		scs.AttrForwardRatio: func(f *frame, i uint32, v scs.Value) {
			if i < telemetry.MaxForwardGearRatios {
				c(f).ForwardGearRatios[i] = asFloat(v)
			}
		},
		scs.AttrReverseRatio: func(f *frame, i uint32, v scs.Value) {
			if i < telemetry.MaxReverseGearRatios {
				c(f).ReverseGearRatios[i] = asFloat(v)
			}
		},
		scs.AttrTrailerCount: func(f *frame, _ uint32, v scs.Value) {
			n := asU32(v)
			f.TrailerCount = n
			f.ZeroTrailersFrom(n)
		},
	}
	for name, s := range wheelConfigSetters(truckWheels) {
		m[name] = s
	}
	return m
}

func trailerConfigSetters(slot int) map[string]configSetter {
	c := func(f *frame) *telemetry.TrailerConfig { return &f.Trailers[slot].Config }
	wheels := func(f *frame) *[telemetry.MaxWheelCount]telemetry.Wheel { return &f.Trailers[slot].Wheels }
	m := map[string]configSetter{
		scs.AttrID:                    cfgString(func(f *frame) *string { return &c(f).ID }),
		scs.AttrCargoAccessoryID:      cfgString(func(f *frame) *string { return &c(f).CargoAccessoryID }),
		scs.AttrHookPosition:          cfgVec(func(f *frame) *telemetry.Vec3 { return &c(f).HookPosition }),
		scs.AttrBrandID:               cfgString(func(f *frame) *string { return &c(f).BrandID }),
		scs.AttrBrand:                 cfgString(func(f *frame) *string { return &c(f).Brand }),
		scs.AttrName:                  cfgString(func(f *frame) *string { return &c(f).Name }),
		scs.AttrChainType:             cfgString(func(f *frame) *string { return &c(f).ChainType }),
		scs.AttrBodyType:              cfgString(func(f *frame) *string { return &c(f).BodyType }),
		scs.AttrLicensePlate:          cfgString(func(f *frame) *string { return &c(f).LicensePlate }),
		scs.AttrLicensePlateCountry:   cfgString(func(f *frame) *string { return &c(f).LicensePlateCountry }),
		scs.AttrLicensePlateCountryID: cfgString(func(f *frame) *string { return &c(f).LicensePlateCountryID }),
		scs.AttrWheelCount:            cfgWheelCount(func(f *frame) *uint32 { return &c(f).WheelCount }, wheels),
	}
	for name, s := range wheelConfigSetters(wheels) {
		m[name] = s
	}
	return m
}

func jobConfigSetters() map[string]configSetter {
	j := func(f *frame) *telemetry.Job { return &f.Job }
	return map[string]configSetter{
		scs.AttrCargoID:              cfgString(func(f *frame) *string { return &j(f).CargoID }),
		scs.AttrCargo:                cfgString(func(f *frame) *string { return &j(f).Cargo }),
		scs.AttrCargoMass:            cfgFloat(func(f *frame) *float64 { return &j(f).CargoMass }),
		scs.AttrCargoUnitMass:        cfgFloat(func(f *frame) *float64 { return &j(f).CargoUnitMass }),
		scs.AttrCargoUnitCount:       cfgU32(func(f *frame) *uint32 { return &j(f).CargoUnitCount }),
		scs.AttrDestinationCity:      cfgString(func(f *frame) *string { return &j(f).DestinationCity }),
		scs.AttrDestinationCityID:    cfgString(func(f *frame) *string { return &j(f).DestinationCityID }),
		scs.AttrSourceCity:           cfgString(func(f *frame) *string { return &j(f).SourceCity }),
		scs.AttrSourceCityID:         cfgString(func(f *frame) *string { return &j(f).SourceCityID }),
		scs.AttrDestinationCompany:   cfgString(func(f *frame) *string { return &j(f).DestinationCompany }),
		scs.AttrDestinationCompanyID: cfgString(func(f *frame) *string { return &j(f).DestinationCompanyID }),
		scs.AttrSourceCompany:        cfgString(func(f *frame) *string { return &j(f).SourceCompany }),
		scs.AttrSourceCompanyID:      cfgString(func(f *frame) *string { return &j(f).SourceCompanyID }),
		scs.AttrIncome: func(f *frame, _ uint32, v scs.Value) {
			if v.Kind == scs.KindU64 {
				f.Job.Income = v.U64
			} else {
				f.Job.Income = uint64(asU32(v))
			}
		},
		scs.AttrDeliveryTime:      cfgU32(func(f *frame) *uint32 { return &j(f).DeliveryTime }),
		scs.AttrPlannedDistanceKm: cfgU32(func(f *frame) *uint32 { return &j(f).PlannedDistance }),
		scs.AttrIsCargoLoaded:     cfgBool(func(f *frame) *bool { return &j(f).IsCargoLoaded }),
		scs.AttrJobMarket:         cfgString(func(f *frame) *string { return &j(f).JobMarket }),
		scs.AttrSpecialJob:        cfgBool(func(f *frame) *bool { return &j(f).IsSpecialJob }),
	}
}

func controlsConfigSetters() map[string]configSetter {
	return map[string]configSetter{
		scs.AttrShifterType: cfgString(func(f *frame) *string { return &f.Truck.Config.ShifterType }),
	}
}

// buildConfigTables maps configuration ids to their attribute tables. The
// bare "trailer" id is the legacy name of slot 0.
func buildConfigTables() map[string]map[string]configSetter {
	tables := map[string]map[string]configSetter{
		scs.ConfigTruck:    truckConfigSetters(),
		scs.ConfigJob:      jobConfigSetters(),
		scs.ConfigControls: controlsConfigSetters(),
		scs.ConfigTrailer:  trailerConfigSetters(0),
	}
	for slot := range telemetry.MaxTrailers {
		tables[scs.TrailerConfig(slot)] = trailerConfigSetters(slot)
	}
	return tables
}

// trailerSlot reports the trailer slot a configuration id refers to.
func trailerSlot(id string) (int, bool) {
	if id == scs.ConfigTrailer {
		return 0, true
	}
	rest, ok := strings.CutPrefix(id, scs.ConfigTrailer+".")
	if !ok {
		return 0, false
	}
	slot, err := strconv.Atoi(rest)
	if err != nil || slot < 0 || slot >= telemetry.MaxTrailers {
		return 0, false
	}
	return slot, true
}
