package scs

import (
	"strconv"
	"strings"
)

// Common channels.
const (
	ChannelGameTime              = "game.time"
	ChannelLocalScale            = "local.scale"
	ChannelMultiplayerTimeOffset = "multiplayer.time.offset"
	ChannelNextRestStop          = "rest.stop"
)

// Truck channels.
const (
	TruckWorldPlacement            = "truck.world.placement"
	TruckLocalLinearVelocity       = "truck.local.velocity.linear"
	TruckLocalAngularVelocity      = "truck.local.velocity.angular"
	TruckLocalLinearAcceleration   = "truck.local.acceleration.linear"
	TruckLocalAngularAcceleration  = "truck.local.acceleration.angular"
	TruckCabinOffset               = "truck.cabin.offset"
	TruckCabinAngularVelocity      = "truck.cabin.velocity.angular"
	TruckCabinAngularAcceleration  = "truck.cabin.acceleration.angular"
	TruckHeadOffset                = "truck.head.offset"
	TruckSpeed                     = "truck.speed"
	TruckEngineRPM                 = "truck.engine.rpm"
	TruckEngineGear                = "truck.engine.gear"
	TruckDisplayedGear             = "truck.displayed.gear"
	TruckEngineEnabled             = "truck.engine.enabled"
	TruckInputSteering             = "truck.input.steering"
	TruckInputThrottle             = "truck.input.throttle"
	TruckInputBrake                = "truck.input.brake"
	TruckInputClutch               = "truck.input.clutch"
	TruckEffectiveSteering         = "truck.effective.steering"
	TruckEffectiveThrottle         = "truck.effective.throttle"
	TruckEffectiveBrake            = "truck.effective.brake"
	TruckEffectiveClutch           = "truck.effective.clutch"
	TruckCruiseControl             = "truck.cruise_control"
	TruckParkingBrake              = "truck.brake.parking"
	TruckMotorBrake                = "truck.brake.motor"
	TruckRetarderLevel             = "truck.brake.retarder"
	TruckBrakeAirPressure          = "truck.brake.air.pressure"
	TruckBrakeAirPressureWarning   = "truck.brake.air.pressure.warning"
	TruckBrakeAirPressureEmergency = "truck.brake.air.pressure.emergency"
	TruckBrakeTemperature          = "truck.brake.temperature"
	TruckFuel                      = "truck.fuel.amount"
	TruckFuelWarning               = "truck.fuel.warning"
	TruckFuelAverageConsumption    = "truck.fuel.consumption.average"
	TruckFuelRange                 = "truck.fuel.range"
	TruckAdblue                    = "truck.adblue"
	TruckAdblueWarning             = "truck.adblue.warning"
	TruckAdblueAverageConsumption  = "truck.adblue.consumption.average"
	TruckOilPressure               = "truck.oil.pressure"
	TruckOilPressureWarning        = "truck.oil.pressure.warning"
	TruckOilTemperature            = "truck.oil.temperature"
	TruckWaterTemperature          = "truck.water.temperature"
	TruckWaterTemperatureWarning   = "truck.water.temperature.warning"
	TruckBatteryVoltage            = "truck.battery.voltage"
	TruckBatteryVoltageWarning     = "truck.battery.voltage.warning"
	TruckElectricEnabled           = "truck.electric.enabled"
	TruckLeftBlinker               = "truck.lblinker"
	TruckRightBlinker              = "truck.rblinker"
	TruckHazardWarning             = "truck.hazard.warning"
	TruckLightLeftBlinker          = "truck.light.lblinker"
	TruckLightRightBlinker         = "truck.light.rblinker"
	TruckLightParking              = "truck.light.parking"
	TruckLightLowBeam              = "truck.light.beam.low"
	TruckLightHighBeam             = "truck.light.beam.high"
	TruckLightAuxFront             = "truck.light.aux.front"
	TruckLightAuxRoof              = "truck.light.aux.roof"
	TruckLightBeacon               = "truck.light.beacon"
	TruckLightBrake                = "truck.light.brake"
	TruckLightReverse              = "truck.light.reverse"
	TruckWipers                    = "truck.wipers"
	TruckDashboardBacklight        = "truck.dashboard.backlight"
	TruckDifferentialLock          = "truck.differential_lock"
	TruckLiftAxle                  = "truck.lift_axle"
	TruckLiftAxleIndicator         = "truck.lift_axle.indicator"
	TruckTrailerLiftAxle           = "truck.trailer.lift_axle"
	TruckTrailerLiftAxleIndicator  = "truck.trailer.lift_axle.indicator"
	TruckWearEngine                = "truck.wear.engine"
	TruckWearTransmission          = "truck.wear.transmission"
	TruckWearCabin                 = "truck.wear.cabin"
	TruckWearChassis               = "truck.wear.chassis"
	TruckWearWheels                = "truck.wear.wheels"
	TruckOdometer                  = "truck.odometer"
	TruckNavigationDistance        = "truck.navigation.distance"
	TruckNavigationTime            = "truck.navigation.time"
	TruckNavigationSpeedLimit      = "truck.navigation.speed.limit"
	TruckWheelSuspensionDeflection = "truck.wheel.suspension.deflection"
	TruckWheelOnGround             = "truck.wheel.on_ground"
	TruckWheelSubstance            = "truck.wheel.substance"
	TruckWheelVelocity             = "truck.wheel.angular_velocity"
	TruckWheelSteering             = "truck.wheel.steering"
	TruckWheelRotation             = "truck.wheel.rotation"
	TruckWheelLift                 = "truck.wheel.lift"
	TruckWheelLiftOffset           = "truck.wheel.lift.offset"
)

// Trailer channels. The engine publishes these once per trailer slot with
// the slot number spliced in, see TrailerChannel.
const (
	TrailerConnected                 = "trailer.connected"
	TrailerCargoDamage               = "trailer.cargo.damage"
	TrailerWorldPlacement            = "trailer.world.placement"
	TrailerLocalLinearVelocity       = "trailer.velocity.linear"
	TrailerLocalAngularVelocity      = "trailer.velocity.angular"
	TrailerLocalLinearAcceleration   = "trailer.acceleration.linear"
	TrailerLocalAngularAcceleration  = "trailer.acceleration.angular"
	TrailerWearBody                  = "trailer.wear.body"
	TrailerWearChassis               = "trailer.wear.chassis"
	TrailerWearWheels                = "trailer.wear.wheels"
	TrailerWheelSuspensionDeflection = "trailer.wheel.suspension.deflection"
	TrailerWheelOnGround             = "trailer.wheel.on_ground"
	TrailerWheelSubstance            = "trailer.wheel.substance"
	TrailerWheelVelocity             = "trailer.wheel.angular_velocity"
	TrailerWheelSteering             = "trailer.wheel.steering"
	TrailerWheelRotation             = "trailer.wheel.rotation"
	TrailerWheelLift                 = "trailer.wheel.lift"
	TrailerWheelLiftOffset           = "trailer.wheel.lift.offset"
)

// Job channels.
const (
	JobCargoDamage = "job.cargo.damage"
)

// TrailerChannel rewrites a "trailer.<x>" channel name into the per-slot
// form "trailer.<slot>.<x>".
func TrailerChannel(name string, slot int) string {
	rest, ok := strings.CutPrefix(name, "trailer")
	if !ok {
		return name
	}
	return "trailer." + strconv.Itoa(slot) + rest
}

// Configuration identifiers.
const (
	ConfigSubstances = "substances"
	ConfigControls   = "controls"
	ConfigHShifter   = "hshifter"
	ConfigTruck      = "truck"
	ConfigTrailer    = "trailer"
	ConfigJob        = "job"
)

// TrailerConfig returns the configuration identifier of a trailer slot.
func TrailerConfig(slot int) string {
	return ConfigTrailer + "." + strconv.Itoa(slot)
}

// Configuration attributes.
const (
	AttrID                      = "id"
	AttrBrandID                 = "brand_id"
	AttrBrand                   = "brand"
	AttrName                    = "name"
	AttrFuelCapacity            = "fuel.capacity"
	AttrFuelWarningFactor       = "fuel.warning.factor"
	AttrAdblueCapacity          = "adblue.capacity"
	AttrAdblueWarningFactor     = "adblue.warning.factor"
	AttrAirPressureWarning      = "brake.air.pressure.warning"
	AttrAirPressureEmergency    = "brake.air.pressure.emergency"
	AttrOilPressureWarning      = "oil.pressure.warning"
	AttrWaterTemperatureWarning = "water.temperature.warning"
	AttrBatteryVoltageWarning   = "battery.voltage.warning"
	AttrRPMLimit                = "rpm.limit"
	AttrForwardGearCount        = "gears.forward"
	AttrReverseGearCount        = "gears.reverse"
	AttrRetarderStepCount       = "retarder.steps"
	AttrForwardRatio            = "forward.ratio"
	AttrReverseRatio            = "reverse.ratio"
	AttrDifferentialRatio       = "differential.ratio"
	AttrCabinPosition           = "cabin.position"
	AttrHeadPosition            = "head.position"
	AttrHookPosition            = "hook.position"
	AttrLicensePlate            = "license.plate"
	AttrLicensePlateCountry     = "license.plate.country"
	AttrLicensePlateCountryID   = "license.plate.country.id"
	AttrWheelCount              = "wheels.count"
	AttrWheelPosition           = "wheel.position"
	AttrWheelSteerable          = "wheel.steerable"
	AttrWheelSimulated          = "wheel.simulated"
	AttrWheelRadius             = "wheel.radius"
	AttrWheelPowered            = "wheel.powered"
	AttrWheelLiftable           = "wheel.liftable"
	AttrTrailerCount            = "trailer.count"
	AttrShifterType             = "shifter.type"

	AttrCargoAccessoryID = "cargo.accessory.id"
	AttrChainType        = "chain.type"
	AttrBodyType         = "body.type"

	AttrCargoID              = "cargo.id"
	AttrCargo                = "cargo"
	AttrCargoMass            = "cargo.mass"
	AttrCargoUnitMass        = "cargo.unit.mass"
	AttrCargoUnitCount       = "cargo.unit.count"
	AttrDestinationCity      = "destination.city"
	AttrDestinationCityID    = "destination.city.id"
	AttrSourceCity           = "source.city"
	AttrSourceCityID         = "source.city.id"
	AttrDestinationCompany   = "destination.company"
	AttrDestinationCompanyID = "destination.company.id"
	AttrSourceCompany        = "source.company"
	AttrSourceCompanyID      = "source.company.id"
	AttrIncome               = "income"
	AttrDeliveryTime         = "delivery.time"
	AttrPlannedDistanceKm    = "planned_distance.km"
	AttrIsCargoLoaded        = "cargo.loaded"
	AttrJobMarket            = "job.market"
	AttrSpecialJob           = "is.special.job"
)

// Gameplay event identifiers.
const (
	GameplayJobCancelled   = "job.cancelled"
	GameplayJobDelivered   = "job.delivered"
	GameplayPlayerFined    = "player.fined"
	GameplayTollgatePaid   = "player.tollgate.paid"
	GameplayPlayerUseFerry = "player.use.ferry"
	GameplayPlayerUseTrain = "player.use.train"
)
