// Package model loads the trained classifier, its label decoder and its
// feature schema as one immutable bundle.
//
// The three artifacts are JSON exports of the joblib pickles written by
// training (crime_model.pkl, label_encoder.pkl, model_features.pkl). A fitted
// RandomForestClassifier maps onto crime_model.json as
//
//	n_features      model.n_features_in_
//	n_classes       model.n_classes_
//	classes         model.classes_.tolist()
//	trees[i]        model.estimators_[i].tree_, with
//	  children_left   tree_.children_left.tolist()
//	  children_right  tree_.children_right.tolist()
//	  feature         tree_.feature.tolist()
//	  threshold       tree_.threshold.tolist()
//	  value           tree_.value[:, 0, :].tolist()
//
// Leaves carry feature -2 and children -1, as sklearn writes them. Value rows
// may hold raw counts or fractions; each leaf is normalised before voting.
//
// label_encoder.json is {"classes": label_encoder.classes_.tolist()} and
// model_features.json is the unpickled column list as is.
package model
