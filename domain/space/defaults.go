package space

// DefaultDiscriminator selects the fixed kernel tuples in the default space
const DefaultDiscriminator = "conv_layer_n"

// Default returns the CNN text-classification search space
func Default() *Space {
	params := []ParameterSpec{
		{Name: "conv_layer_n", Candidates: Ints(2, 3), Enabled: true},
		{Name: "fold", Candidates: Ints(0, 1), Enabled: true, DependsOn: DependsOn("conv_layer_n"), Repeat: true},
		{Name: "dr", Candidates: Floats(0.5), Enabled: true, DependsOn: DependsOn("conv_layer_n")},
		{Name: "ext_ebd", Candidates: Bools(true, false), Enabled: false},
		{Name: "batch_size", Candidates: Ints(9, 10, 11, 12), Enabled: true},
		{Name: "ebd_dm", Candidates: Ints(48), Enabled: true},
		{Name: "l2_regs", Candidates: Floats(1e-3, 1e-4, 1e-5, 1e-6), Enabled: false, DependsOn: DependsOnPlus("conv_layer_n", 2)},
	}

	tables := []DiscriminatedTable{
		{Name: "ks", Entries: map[Scalar][]Scalar{
			Int(2): Ints(20, 5),
			Int(3): Ints(20, 10, 5),
		}},
		{Name: "nkerns", Entries: map[Scalar][]Scalar{
			Int(2): Ints(6, 12),
			Int(3): Ints(5, 10, 18),
		}},
		{Name: "filter_widths", Entries: map[Scalar][]Scalar{
			Int(2): Ints(10, 7),
			Int(3): Ints(6, 5, 3),
		}},
		{Name: "l2_regs", Entries: map[Scalar][]Scalar{
			Int(2): Floats(1e-6, 3e-5, 3e-5, 1e-4),
			Int(3): Floats(1e-6, 3e-5, 3e-6, 1e-5, 1e-4),
		}},
	}

	s, err := NewSpace(params, tables...)
	if err != nil {
		// The literal above is fixed; a failure here is a programming error.
		panic(err)
	}
	return s
}
