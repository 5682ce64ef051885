package domain

type AddonName string

const (
	AddonMeals      AddonName = "meals"
	AddonWheelchair AddonName = "wheelchair"
	AddonPickup     AddonName = "pickup"
	AddonDropoff    AddonName = "dropoff"
	AddonLuggage    AddonName = "luggage"
)

// AddonNames lists the fixed add-on keys in display order.
func AddonNames() []AddonName {
	return []AddonName{AddonMeals, AddonWheelchair, AddonPickup, AddonDropoff, AddonLuggage}
}

func IsAddon(name string) bool {
	for _, n := range AddonNames() {
		if string(n) == name {
			return true
		}
	}
	return false
}

type Addons map[AddonName]bool

type Prices map[AddonName]string
