package store

import (
	"sort"

	"github.com/tstelemetry/server/pkg/scs"
	"github.com/tstelemetry/server/pkg/telemetry"
)

// ChannelRegistration is one registration the plugin performs with the engine.
type ChannelRegistration struct {
	Name  string
	Index uint32
	Kind  scs.ValueKind
}

type frame = telemetry.Frame

func truckWheels(f *frame) *[telemetry.MaxWheelCount]telemetry.Wheel { return &f.Truck.Wheels }

func wheelSetters(prefix func(string) string, wheels wheelsOf, names wheelChannels) map[string]Setter {
	return map[string]Setter{
		prefix(names.deflection): wheelDouble(wheels, func(w *telemetry.Wheel) *float64 { return &w.SuspensionDeflection }),
		prefix(names.rotation):   wheelDouble(wheels, func(w *telemetry.Wheel) *float64 { return &w.Rotation }),
		prefix(names.velocity):   wheelDouble(wheels, func(w *telemetry.Wheel) *float64 { return &w.Velocity }),
		prefix(names.steering):   wheelDouble(wheels, func(w *telemetry.Wheel) *float64 { return &w.Steering }),
		prefix(names.lift):       wheelDouble(wheels, func(w *telemetry.Wheel) *float64 { return &w.Lift }),
		prefix(names.liftOffset): wheelDouble(wheels, func(w *telemetry.Wheel) *float64 { return &w.LiftOffset }),
		prefix(names.onGround):   wheelBool(wheels, func(w *telemetry.Wheel) *bool { return &w.IsOnGround }),
		prefix(names.substance):  wheelU32(wheels, func(w *telemetry.Wheel) *uint32 { return &w.Substance }),
	}
}

type wheelChannels struct {
	deflection, rotation, velocity, steering, lift, liftOffset, onGround, substance string
}

var truckWheelChannels = wheelChannels{
	deflection: scs.TruckWheelSuspensionDeflection,
	rotation:   scs.TruckWheelRotation,
	velocity:   scs.TruckWheelVelocity,
	steering:   scs.TruckWheelSteering,
	lift:       scs.TruckWheelLift,
	liftOffset: scs.TruckWheelLiftOffset,
	onGround:   scs.TruckWheelOnGround,
	substance:  scs.TruckWheelSubstance,
}

var trailerWheelChannels = wheelChannels{
	deflection: scs.TrailerWheelSuspensionDeflection,
	rotation:   scs.TrailerWheelRotation,
	velocity:   scs.TrailerWheelVelocity,
	steering:   scs.TrailerWheelSteering,
	lift:       scs.TrailerWheelLift,
	liftOffset: scs.TrailerWheelLiftOffset,
	onGround:   scs.TrailerWheelOnGround,
	substance:  scs.TrailerWheelSubstance,
}

func commonSetters() map[string]Setter {
	return map[string]Setter{
		scs.ChannelGameTime:              u32(func(f *frame) *uint32 { return &f.GameTime }),
		scs.ChannelLocalScale:            double(func(f *frame) *float64 { return &f.LocalScale }),
		scs.ChannelMultiplayerTimeOffset: s32(func(f *frame) *int32 { return &f.MultiplayerTimeOffset }),
		scs.ChannelNextRestStop:          s32(func(f *frame) *int32 { return &f.RestStop }),
		scs.JobCargoDamage:               float(func(f *frame) *float64 { return &f.Job.CargoDamage }),
	}
}

func truckSetters() map[string]Setter {
	t := func(f *frame) *telemetry.Truck { return &f.Truck }
	m := map[string]Setter{
		scs.TruckWorldPlacement:            dplacement(func(f *frame) *telemetry.Placement { return &t(f).WorldPlacement }),
		scs.TruckLocalLinearVelocity:       dvector(func(f *frame) *telemetry.Vec3 { return &t(f).LocalLinearVelocity }),
		scs.TruckLocalAngularVelocity:      dvector(func(f *frame) *telemetry.Vec3 { return &t(f).LocalAngularVelocity }),
		scs.TruckLocalLinearAcceleration:   dvector(func(f *frame) *telemetry.Vec3 { return &t(f).LocalLinearAcceleration }),
		scs.TruckLocalAngularAcceleration:  dvector(func(f *frame) *telemetry.Vec3 { return &t(f).LocalAngularAcceleration }),
		scs.TruckCabinOffset:               dplacement(func(f *frame) *telemetry.Placement { return &t(f).Cabin.Offset }),
		scs.TruckCabinAngularVelocity:      dvector(func(f *frame) *telemetry.Vec3 { return &t(f).Cabin.AngularVelocity }),
		scs.TruckCabinAngularAcceleration:  dvector(func(f *frame) *telemetry.Vec3 { return &t(f).Cabin.AngularAcceleration }),
		scs.TruckHeadOffset:                dplacement(func(f *frame) *telemetry.Placement { return &t(f).HeadOffset }),
		scs.TruckSpeed:                     double(func(f *frame) *float64 { return &t(f).Speed }),
		scs.TruckEngineRPM:                 double(func(f *frame) *float64 { return &t(f).Engine.RPM }),
		scs.TruckEngineGear:                s32(func(f *frame) *int32 { return &t(f).Engine.Gear }),
		scs.TruckEngineEnabled:             boolean(func(f *frame) *bool { return &t(f).Engine.Enabled }),
		scs.TruckDisplayedGear:             s32(func(f *frame) *int32 { return &t(f).DisplayedGear }),
		scs.TruckInputSteering:             double(func(f *frame) *float64 { return &t(f).Input.Steering }),
		scs.TruckInputThrottle:             double(func(f *frame) *float64 { return &t(f).Input.Throttle }),
		scs.TruckInputBrake:                double(func(f *frame) *float64 { return &t(f).Input.Brake }),
		scs.TruckInputClutch:               double(func(f *frame) *float64 { return &t(f).Input.Clutch }),
		scs.TruckEffectiveSteering:         double(func(f *frame) *float64 { return &t(f).Effective.Steering }),
		scs.TruckEffectiveThrottle:         double(func(f *frame) *float64 { return &t(f).Effective.Throttle }),
		scs.TruckEffectiveBrake:            double(func(f *frame) *float64 { return &t(f).Effective.Brake }),
		scs.TruckEffectiveClutch:           double(func(f *frame) *float64 { return &t(f).Effective.Clutch }),
		scs.TruckCruiseControl:             double(func(f *frame) *float64 { return &t(f).CruiseControl }),
		scs.TruckParkingBrake:              boolean(func(f *frame) *bool { return &t(f).Brake.Parking }),
		scs.TruckMotorBrake:                boolean(func(f *frame) *bool { return &t(f).Brake.Motor }),
		scs.TruckRetarderLevel:             u32(func(f *frame) *uint32 { return &t(f).Brake.Retarder }),
		scs.TruckBrakeAirPressure:          double(func(f *frame) *float64 { return &t(f).Brake.AirPressure }),
		scs.TruckBrakeAirPressureWarning:   boolean(func(f *frame) *bool { return &t(f).Brake.AirPressureWarning }),
		scs.TruckBrakeAirPressureEmergency: boolean(func(f *frame) *bool { return &t(f).Brake.AirPressureEmergency }),
		scs.TruckBrakeTemperature:          double(func(f *frame) *float64 { return &t(f).Brake.Temperature }),
		scs.TruckFuel:                      double(func(f *frame) *float64 { return &t(f).Fuel.Amount }),
		scs.TruckFuelWarning:               boolean(func(f *frame) *bool { return &t(f).Fuel.Warning }),
		scs.TruckFuelAverageConsumption:    double(func(f *frame) *float64 { return &t(f).Fuel.AverageConsumption }),
		scs.TruckFuelRange:                 double(func(f *frame) *float64 { return &t(f).Fuel.Range }),
		scs.TruckAdblue:                    double(func(f *frame) *float64 { return &t(f).Adblue.Amount }),
		scs.TruckAdblueWarning:             boolean(func(f *frame) *bool { return &t(f).Adblue.Warning }),
		scs.TruckAdblueAverageConsumption:  double(func(f *frame) *float64 { return &t(f).Adblue.AverageConsumption }),
		scs.TruckOilPressure:               double(func(f *frame) *float64 { return &t(f).Oil.Pressure }),
		scs.TruckOilPressureWarning:        boolean(func(f *frame) *bool { return &t(f).Oil.PressureWarning }),
		scs.TruckOilTemperature:            double(func(f *frame) *float64 { return &t(f).Oil.Temperature }),
		scs.TruckWaterTemperature:          double(func(f *frame) *float64 { return &t(f).WaterTemperature }),
		scs.TruckWaterTemperatureWarning:   boolean(func(f *frame) *bool { return &t(f).WaterTemperatureWarning }),
		scs.TruckBatteryVoltage:            double(func(f *frame) *float64 { return &t(f).BatteryVoltage }),
		scs.TruckBatteryVoltageWarning:     boolean(func(f *frame) *bool { return &t(f).BatteryVoltageWarning }),
		scs.TruckElectricEnabled:           boolean(func(f *frame) *bool { return &t(f).ElectricEnabled }),
		scs.TruckLeftBlinker:               boolean(func(f *frame) *bool { return &t(f).LeftBlinker }),
		scs.TruckRightBlinker:              boolean(func(f *frame) *bool { return &t(f).RightBlinker }),
		scs.TruckHazardWarning:             boolean(func(f *frame) *bool { return &t(f).HazardWarning }),
		scs.TruckLightLeftBlinker:          boolean(func(f *frame) *bool { return &t(f).Light.LeftBlinker }),
		scs.TruckLightRightBlinker:         boolean(func(f *frame) *bool { return &t(f).Light.RightBlinker }),
		scs.TruckLightParking:              boolean(func(f *frame) *bool { return &t(f).Light.Parking }),
		scs.TruckLightLowBeam:              boolean(func(f *frame) *bool { return &t(f).Light.LowBeam }),
		scs.TruckLightHighBeam:             boolean(func(f *frame) *bool { return &t(f).Light.HighBeam }),
		scs.TruckLightAuxFront:             u32(func(f *frame) *uint32 { return &t(f).Light.AuxFront }),
		scs.TruckLightAuxRoof:              u32(func(f *frame) *uint32 { return &t(f).Light.AuxRoof }),
		scs.TruckLightBeacon:               boolean(func(f *frame) *bool { return &t(f).Light.Beacon }),
		scs.TruckLightBrake:                boolean(func(f *frame) *bool { return &t(f).Light.Brake }),
		scs.TruckLightReverse:              boolean(func(f *frame) *bool { return &t(f).Light.Reverse }),
		scs.TruckWipers:                    boolean(func(f *frame) *bool { return &t(f).Wipers }),
		scs.TruckDashboardBacklight:        double(func(f *frame) *float64 { return &t(f).DashboardBacklight }),
		scs.TruckDifferentialLock:          boolean(func(f *frame) *bool { return &t(f).DifferentialLock }),
		scs.TruckLiftAxle:                  boolean(func(f *frame) *bool { return &t(f).LiftAxle }),
		scs.TruckLiftAxleIndicator:         boolean(func(f *frame) *bool { return &t(f).LiftAxleIndicator }),
		scs.TruckTrailerLiftAxle:           boolean(func(f *frame) *bool { return &t(f).TrailerLiftAxle }),
		scs.TruckTrailerLiftAxleIndicator:  boolean(func(f *frame) *bool { return &t(f).TrailerLiftAxleIndicator }),
		scs.TruckWearEngine:                double(func(f *frame) *float64 { return &t(f).Wear.Engine }),
		scs.TruckWearTransmission:          double(func(f *frame) *float64 { return &t(f).Wear.Transmission }),
		scs.TruckWearCabin:                 double(func(f *frame) *float64 { return &t(f).Wear.Cabin }),
		scs.TruckWearChassis:               double(func(f *frame) *float64 { return &t(f).Wear.Chassis }),
		scs.TruckWearWheels:                double(func(f *frame) *float64 { return &t(f).Wear.Wheels }),
		scs.TruckOdometer:                  double(func(f *frame) *float64 { return &t(f).Odometer }),
		scs.TruckNavigationDistance:        double(func(f *frame) *float64 { return &t(f).Navigation.Distance }),
		scs.TruckNavigationTime:            double(func(f *frame) *float64 { return &t(f).Navigation.Time }),
		scs.TruckNavigationSpeedLimit:      double(func(f *frame) *float64 { return &t(f).Navigation.SpeedLimit }),
	}
	for name, s := range wheelSetters(func(n string) string { return n }, truckWheels, truckWheelChannels) {
		m[name] = s
	}
	return m
}

func trailerSetters(slot int) map[string]Setter {
	t := func(f *frame) *telemetry.Trailer { return &f.Trailers[slot] }
	name := func(n string) string { return scs.TrailerChannel(n, slot) }
	m := map[string]Setter{
		name(scs.TrailerConnected):                boolean(func(f *frame) *bool { return &t(f).Connected }),
		name(scs.TrailerCargoDamage):              double(func(f *frame) *float64 { return &t(f).CargoDamage }),
		name(scs.TrailerWorldPlacement):           dplacement(func(f *frame) *telemetry.Placement { return &t(f).WorldPlacement }),
		name(scs.TrailerLocalLinearVelocity):      dvector(func(f *frame) *telemetry.Vec3 { return &t(f).LocalLinearVelocity }),
		name(scs.TrailerLocalAngularVelocity):     dvector(func(f *frame) *telemetry.Vec3 { return &t(f).LocalAngularVelocity }),
		name(scs.TrailerLocalLinearAcceleration):  dvector(func(f *frame) *telemetry.Vec3 { return &t(f).LocalLinearAcceleration }),
		name(scs.TrailerLocalAngularAcceleration): dvector(func(f *frame) *telemetry.Vec3 { return &t(f).LocalAngularAcceleration }),
		name(scs.TrailerWearBody):                 double(func(f *frame) *float64 { return &t(f).Wear.Body }),
		name(scs.TrailerWearChassis):              double(func(f *frame) *float64 { return &t(f).Wear.Chassis }),
		name(scs.TrailerWearWheels):               double(func(f *frame) *float64 { return &t(f).Wear.Wheels }),
	}
	wheels := func(f *frame) *[telemetry.MaxWheelCount]telemetry.Wheel { return &t(f).Wheels }
	for n, s := range wheelSetters(name, wheels, trailerWheelChannels) {
		m[n] = s
	}
	return m
}

// buildChannelTable assembles the immutable channel name to setter mapping.
func buildChannelTable() map[string]Setter {
	table := commonSetters()
	for name, s := range truckSetters() {
		table[name] = s
	}
	for slot := range telemetry.MaxTrailers {
		for name, s := range trailerSetters(slot) {
			table[name] = s
		}
	}
	return table
}

func channelRegistrations(table map[string]Setter) []ChannelRegistration {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	regs := make([]ChannelRegistration, 0, len(names))
	for _, name := range names {
		s := table[name]
		if !s.Indexed {
			regs = append(regs, ChannelRegistration{Name: name, Index: scs.IndexNil, Kind: s.Kind})
			continue
		}
		for i := range uint32(telemetry.MaxWheelCount) {
			regs = append(regs, ChannelRegistration{Name: name, Index: i, Kind: s.Kind})
		}
	}
	return regs
}
