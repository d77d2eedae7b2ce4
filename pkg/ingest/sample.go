package ingest

// SampleCSV is the downloadable template served by the sample-csv endpoint.
// Header order matches what Parse expects; list cells are quoted.
const SampleCSV = `patient_id,age,sex,race,medications,comorbidities,creatinine,alt,ast,hemoglobin,bp_systolic,bp_diastolic,heart_rate
P-001,65,M,White,"metformin,lisinopril","diabetes,hypertension",1.1,35,32,13.8,138,85,74
P-002,72,F,Black,"warfarin,metoprolol,furosemide","atrial_fibrillation,heart_failure",1.4,42,38,12.1,146,88,80
P-003,58,F,Asian,"atorvastatin","hyperlipidemia",0.9,28,25,13.2,124,78,68
`
