package syllabus

import "github.com/neetprep/neetprep/internal/quiz"

// seedUnits is the NEET syllabus as published, grouped by subject and class.
var seedUnits = []Unit{
	// Physics, Class 11
	{quiz.SubjectPhysics, Class11, "Physical World and Measurement"},
	{quiz.SubjectPhysics, Class11, "Kinematics"},
	{quiz.SubjectPhysics, Class11, "Laws of Motion"},
	{quiz.SubjectPhysics, Class11, "Work, Energy and Power"},
	{quiz.SubjectPhysics, Class11, "Motion of System of Particles and Rigid Body"},
	{quiz.SubjectPhysics, Class11, "Gravitation"},
	{quiz.SubjectPhysics, Class11, "Properties of Bulk Matter"},
	{quiz.SubjectPhysics, Class11, "Thermodynamics"},
	{quiz.SubjectPhysics, Class11, "Behaviour of Perfect Gas and Kinetic Theory"},
	{quiz.SubjectPhysics, Class11, "Oscillations and Waves"},

	// Physics, Class 12
	{quiz.SubjectPhysics, Class12, "Electrostatics"},
	{quiz.SubjectPhysics, Class12, "Current Electricity"},
	{quiz.SubjectPhysics, Class12, "Magnetic Effects of Current and Magnetism"},
	{quiz.SubjectPhysics, Class12, "Electromagnetic Induction and Alternating Currents"},
	{quiz.SubjectPhysics, Class12, "Electromagnetic Waves"},
	{quiz.SubjectPhysics, Class12, "Optics"},
	{quiz.SubjectPhysics, Class12, "Dual Nature of Matter and Radiation"},
	{quiz.SubjectPhysics, Class12, "Atoms and Nuclei"},
	{quiz.SubjectPhysics, Class12, "Electronic Devices"},

	// Chemistry, Class 11
	{quiz.SubjectChemistry, Class11, "Some Basic Concepts of Chemistry"},
	{quiz.SubjectChemistry, Class11, "Structure of Atom"},
	{quiz.SubjectChemistry, Class11, "Classification of Elements and Periodicity"},
	{quiz.SubjectChemistry, Class11, "Chemical Bonding and Molecular Structure"},
	{quiz.SubjectChemistry, Class11, "States of Matter"},
	{quiz.SubjectChemistry, Class11, "Thermodynamics"},
	{quiz.SubjectChemistry, Class11, "Equilibrium"},
	{quiz.SubjectChemistry, Class11, "Redox Reactions"},
	{quiz.SubjectChemistry, Class11, "Hydrogen"},
	{quiz.SubjectChemistry, Class11, "s-Block Elements"},
	{quiz.SubjectChemistry, Class11, "Some p-Block Elements"},
	{quiz.SubjectChemistry, Class11, "Organic Chemistry - Basic Principles"},
	{quiz.SubjectChemistry, Class11, "Hydrocarbons"},
	{quiz.SubjectChemistry, Class11, "Environmental Chemistry"},

	// Chemistry, Class 12
	{quiz.SubjectChemistry, Class12, "Solid State"},
	{quiz.SubjectChemistry, Class12, "Solutions"},
	{quiz.SubjectChemistry, Class12, "Electrochemistry"},
	{quiz.SubjectChemistry, Class12, "Chemical Kinetics"},
	{quiz.SubjectChemistry, Class12, "Surface Chemistry"},
	{quiz.SubjectChemistry, Class12, "General Principles of Metallurgy"},
	{quiz.SubjectChemistry, Class12, "p-Block Elements"},
	{quiz.SubjectChemistry, Class12, "d and f Block Elements"},
	{quiz.SubjectChemistry, Class12, "Coordination Compounds"},
	{quiz.SubjectChemistry, Class12, "Haloalkanes and Haloarenes"},
	{quiz.SubjectChemistry, Class12, "Alcohols, Phenols and Ethers"},
	{quiz.SubjectChemistry, Class12, "Aldehydes, Ketones and Carboxylic Acids"},
	{quiz.SubjectChemistry, Class12, "Organic Compounds containing Nitrogen"},
	{quiz.SubjectChemistry, Class12, "Biomolecules"},
	{quiz.SubjectChemistry, Class12, "Polymers"},
	{quiz.SubjectChemistry, Class12, "Chemistry in Everyday Life"},

	// Biology, Class 11
	{quiz.SubjectBiology, Class11, "Diversity in Living World"},
	{quiz.SubjectBiology, Class11, "Structural Organisation in Animals and Plants"},
	{quiz.SubjectBiology, Class11, "Cell Structure and Function"},
	{quiz.SubjectBiology, Class11, "Plant Physiology"},
	{quiz.SubjectBiology, Class11, "Human Physiology"},

	// Biology, Class 12
	{quiz.SubjectBiology, Class12, "Reproduction"},
	{quiz.SubjectBiology, Class12, "Genetics and Evolution"},
	{quiz.SubjectBiology, Class12, "Biology and Human Welfare"},
	{quiz.SubjectBiology, Class12, "Biotechnology and Its Applications"},
	{quiz.SubjectBiology, Class12, "Ecology and Environment"},
}
