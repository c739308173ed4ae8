package entity

type QuickEditCategory string

const (
	CategoryInterior QuickEditCategory = "interior"
	CategoryExterior QuickEditCategory = "exterior"
)

// QuickEdit is a predefined whole-image prompt.
type QuickEdit struct {
	Key      string            `json:"key"`
	Category QuickEditCategory `json:"category"`
	Label    string            `json:"label"`
	Prompt   string            `json:"prompt"`
}

var quickEdits = []QuickEdit{
	{Key: "virtual-staging", Category: CategoryInterior, Label: "Virtual Staging", Prompt: "Virtually stage this empty room with modern and stylish furniture that complements the space."},
	{Key: "remove-clutter", Category: CategoryInterior, Label: "Remove Clutter", Prompt: "Remove all clutter and personal items, making the space look clean, tidy, and depersonalized."},
	{Key: "modernize-kitchen", Category: CategoryInterior, Label: "Modernize Kitchen", Prompt: "Modernize the kitchen with sleek quartz countertops, a new backsplash, and stainless steel appliances."},
	{Key: "change-flooring", Category: CategoryInterior, Label: "Change Flooring", Prompt: "Replace the current flooring with wide-plank, light oak colored hardwood floors."},
	{Key: "add-warm-lighting", Category: CategoryInterior, Label: "Add Warm Lighting", Prompt: "Add warm, inviting ambient lighting to the room, making it feel bright and cozy."},
	{Key: "add-light-fixtures", Category: CategoryInterior, Label: "Add Light Fixtures", Prompt: "Add stylish, modern light fixtures, such as recessed lighting or a contemporary chandelier."},
	{Key: "change-wall-color", Category: CategoryInterior, Label: "Change Wall Color", Prompt: "Paint the walls a neutral and popular light gray color (Agreeable Gray)."},
	{Key: "add-artwork", Category: CategoryInterior, Label: "Add Artwork", Prompt: "Add a single, large piece of tasteful and modern abstract art to the main wall."},
	{Key: "add-plants", Category: CategoryInterior, Label: "Add Plants", Prompt: "Add a few elegant indoor plants, like a fiddle leaf fig or snake plant, to bring life to the room."},
	{Key: "update-hardware", Category: CategoryInterior, Label: "Update Hardware", Prompt: "Update cabinet and door hardware to a sleek, modern matte black finish."},

	{Key: "enhance-landscaping", Category: CategoryExterior, Label: "Enhance Landscaping", Prompt: "Enhance the landscaping with lush, colorful flower beds, manicured shrubs, and fresh dark mulch."},
	{Key: "make-lawn-green", Category: CategoryExterior, Label: "Make Lawn Green", Prompt: "Replace the lawn with a vibrant, healthy, and perfectly manicured green grass carpet."},
	{Key: "clean-driveway", Category: CategoryExterior, Label: "Clean Driveway/Walkway", Prompt: "Power wash the driveway and all walkways to remove stains, weeds, and grime, making them look brand new."},
	{Key: "make-sky-blue", Category: CategoryExterior, Label: "Make Sky Blue", Prompt: "Replace the overcast or dull sky with a clear, beautiful, and realistic blue sky with a few wispy clouds."},
	{Key: "twilight-conversion", Category: CategoryExterior, Label: "Twilight Conversion", Prompt: "Convert this daytime photo to a dramatic twilight scene, with a beautiful sunset sky, glowing interior lights, and exterior accent lighting."},
	{Key: "modernize-paint", Category: CategoryExterior, Label: "Modernize Paint", Prompt: "Paint the house exterior a modern and popular neutral color like a warm off-white or light gray, including the trim."},
	{Key: "add-pool", Category: CategoryExterior, Label: "Add a Pool", Prompt: "Add a modern, rectangular in-ground swimming pool with a clean stone patio and lounge chairs to the backyard."},
	{Key: "update-front-door", Category: CategoryExterior, Label: "Update Front Door", Prompt: "Paint the front door a bold, attractive color like navy blue or black and update the hardware."},
	{Key: "repair-fence", Category: CategoryExterior, Label: "Repair Fence", Prompt: "Repair and paint the fence to make it look brand new and in perfect condition."},
	{Key: "clean-roof", Category: CategoryExterior, Label: "Clean Roof", Prompt: "Clean the roof, removing all dark streaks, moss, and debris to improve the home's curb appeal."},
}

// QuickEdits returns a copy of the catalog, interior entries first.
func QuickEdits() []QuickEdit {
	out := make([]QuickEdit, len(quickEdits))
	copy(out, quickEdits)
	return out
}

func FindQuickEdit(key string) (QuickEdit, bool) {
	for _, q := range quickEdits {
		if q.Key == key {
			return q, true
		}
	}
	return QuickEdit{}, false
}
